package database

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
)

// Schema is the table set the repository expects, mirrored in
// scripts/scylladb_init.cql. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		category_id uuid PRIMARY KEY,
		name text,
		name_ta text,
		icon text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY,
		name text,
		name_ta text,
		category_id uuid,
		price double,
		offer_price double,
		unit text,
		image_url text,
		description text,
		description_ta text,
		in_stock boolean,
		is_offer boolean,
		is_best_seller boolean,
		is_fresh boolean,
		weights list<text>,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id text PRIMARY KEY,
		id uuid,
		user_id text,
		customer_name text,
		phone text,
		address text,
		email text,
		items text,
		total_amount double,
		delivery_option text,
		payment_method text,
		order_status text,
		payment_status text,
		created_at timestamp,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key text PRIMARY KEY,
		value text,
		updated_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id uuid PRIMARY KEY,
		email text,
		password_hash text,
		name text,
		phone text,
		role text,
		created_at timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (
		email text PRIMARY KEY,
		user_id uuid
	)`,
}

// EnsureSchema applies Schema on the session's keyspace. Deployments whose
// role lacks CREATE permission run scripts/scylladb_init.cql instead.
func EnsureSchema(session *gocql.Session) error {
	for _, stmt := range Schema {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Info().Int("tables", len(Schema)).Msg("✅ ScyllaDB schema ensured")
	return nil
}
