package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL,
				email TEXT,
				password_hash TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_users_username ON users (username COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id INTEGER REFERENCES users (id) NOT NULL,
				titulo TEXT NOT NULL,
				autor TEXT NOT NULL,
				creado_por_ocr BOOLEAN NOT NULL DEFAULT FALSE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_user_id ON books (user_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE chapters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				numero_capitulo INTEGER NOT NULL,
				titulo_capitulo TEXT NOT NULL,
				paginas_estimadas INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_chapters_book_id ON chapters (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reading_profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id INTEGER REFERENCES users (id) NOT NULL,
				nivel_lectura INTEGER NOT NULL,
				tiempo_lectura_diario INTEGER NOT NULL,
				hora_preferida TEXT,
				incluir_fines_de_semana BOOLEAN NOT NULL DEFAULT TRUE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reading_profiles_user_id ON reading_profiles (user_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reading_plans (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id INTEGER REFERENCES users (id) NOT NULL,
				book_id INTEGER REFERENCES books (id) NOT NULL,
				profile_id INTEGER REFERENCES reading_profiles (id) NOT NULL,
				titulo TEXT,
				descripcion TEXT,
				fecha_inicio TIMESTAMPTZ NOT NULL,
				fecha_fin TIMESTAMPTZ NOT NULL,
				fecha_fin_original TIMESTAMPTZ NOT NULL,
				estado TEXT NOT NULL DEFAULT 'ACTIVO',
				progreso_porcentaje REAL NOT NULL DEFAULT 0,
				paginas_por_dia INTEGER NOT NULL,
				tiempo_estimado_dia INTEGER NOT NULL,
				incluir_fines_semana BOOLEAN NOT NULL DEFAULT TRUE,
				dias_atraso INTEGER NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reading_plans_user_id ON reading_plans (user_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reading_plans_book_id ON reading_plans (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE plan_details (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				plan_id INTEGER REFERENCES reading_plans (id) ON DELETE CASCADE NOT NULL,
				chapter_id INTEGER REFERENCES chapters (id) NOT NULL,
				fecha_asignada TIMESTAMPTZ NOT NULL,
				dia INTEGER NOT NULL,
				pagina_inicio INTEGER NOT NULL,
				pagina_fin INTEGER NOT NULL,
				tiempo_estimado_minutos INTEGER NOT NULL,
				leido BOOLEAN NOT NULL DEFAULT FALSE,
				tiempo_real_minutos INTEGER,
				dificultad_percibida INTEGER,
				fecha_completado TIMESTAMPTZ,
				notas TEXT,
				es_atrasado BOOLEAN NOT NULL DEFAULT FALSE
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_plan_details_plan_id ON plan_details (plan_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_plan_details_plan_id_leido ON plan_details (plan_id, leido)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reading_progress (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				plan_id INTEGER REFERENCES reading_plans (id) ON DELETE CASCADE NOT NULL,
				fecha TIMESTAMPTZ NOT NULL,
				paginas_leidas INTEGER NOT NULL DEFAULT 0,
				tiempo_invertido_min INTEGER NOT NULL DEFAULT 0,
				estado_dia TEXT NOT NULL DEFAULT 'PENDIENTE',
				porcentaje_dia REAL NOT NULL DEFAULT 0,
				notas_dia TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Upsert key: one progress row per plan per date.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reading_progress_plan_id_fecha ON reading_progress (plan_id, fecha)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE jobs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				data TEXT,
				progress INTEGER NOT NULL DEFAULT 0,
				process_id TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"jobs", "reading_progress", "plan_details", "reading_plans", "reading_profiles", "chapters", "books", "users"} {
			_, err := db.Exec("DROP TABLE IF EXISTS " + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
