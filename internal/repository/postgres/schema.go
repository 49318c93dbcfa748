package postgres

import (
	"context"
	"fmt"
)

// webMercatorProj4 registers legacy SRID 900913 on installs whose
// spatial_ref_sys only carries 3857.
const webMercatorProj4 = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 " +
	"+x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs"

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,

	`INSERT INTO spatial_ref_sys (srid, auth_name, auth_srid, srtext, proj4text)
	 SELECT 900913, 'EPSG', 900913, '', '` + webMercatorProj4 + `'
	 WHERE NOT EXISTS (SELECT 1 FROM spatial_ref_sys WHERE srid = 900913)`,

	`CREATE TABLE IF NOT EXISTS active_generation (
		id         int PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		generation uuid NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS lines (
		id                       bigserial PRIMARY KEY,
		generation               uuid NOT NULL,
		name                     text NOT NULL,
		slug                     text,
		linestring_2229          geometry(MultiLineString, 2229),
		linestring_4269          geometry(MultiLineString, 4269),
		linestring_4326          geometry(MultiLineString, 4326),
		linestring_900913        geometry(MultiLineString, 900913),
		simple_linestring_2229   geometry(MultiLineString, 2229),
		simple_linestring_4269   geometry(MultiLineString, 4269),
		simple_linestring_4326   geometry(MultiLineString, 4326),
		simple_linestring_900913 geometry(MultiLineString, 900913)
	)`,

	`CREATE INDEX IF NOT EXISTS lines_generation_name_idx ON lines (generation, name)`,

	`CREATE TABLE IF NOT EXISTS stations (
		id         bigserial PRIMARY KEY,
		generation uuid NOT NULL,
		name       text NOT NULL,
		slug       text,
		line_ids   bigint[] NOT NULL DEFAULT '{}'
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS stations_generation_name_idx ON stations (generation, name)`,

	`CREATE TABLE IF NOT EXISTS stops (
		id           bigserial PRIMARY KEY,
		generation   uuid NOT NULL,
		stop_id      int NOT NULL,
		name         text NOT NULL,
		slug         text,
		station_id   bigint REFERENCES stations (id) ON DELETE SET NULL,
		line_ids     bigint[] NOT NULL DEFAULT '{}',
		point_4269   geometry(Point, 4269),
		point_4326   geometry(Point, 4326),
		point_900913 geometry(Point, 900913)
	)`,

	`CREATE INDEX IF NOT EXISTS stops_generation_stop_id_idx ON stops (generation, stop_id)`,
}

// Migrate applies the geometry store schema. Statements are idempotent, so
// running it before every reload is safe.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	db.logger.Info("Geometry store schema up to date")
	return nil
}
