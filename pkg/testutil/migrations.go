package testutil

// Migrations returns the farmstead schema as ordered SQL statements.
// The statements mirror the production migrations, including the named
// constraints that database.MapPQError translates into API errors.
func Migrations() []string {
	return []string{
		usersMigration,
		storageLocationsMigration,
		inventoryItemsMigration,
		inventoryBatchesMigration,
		stockMovementsMigration,
		inventoryAlertsMigration,
		farmsMigration,
		cropsMigration,
		farmTasksMigration,
		transactionsMigration,
		equipmentMigration,
	}
}

const usersMigration = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_unique UNIQUE (email)
	);
`

const storageLocationsMigration = `
	CREATE TABLE IF NOT EXISTS storage_locations (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		location_type VARCHAR(50) NOT NULL DEFAULT 'other',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

const inventoryItemsMigration = `
	CREATE TABLE IF NOT EXISTS inventory_items (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		category VARCHAR(100) NOT NULL,
		sku VARCHAR(100),
		unit VARCHAR(50) NOT NULL,
		purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		low_stock_threshold INTEGER NOT NULL DEFAULT 0,
		supplier VARCHAR(255),
		location_id UUID REFERENCES storage_locations(id),
		notes TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ,
		CONSTRAINT inventory_items_sku_unique UNIQUE (sku)
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_items_category ON inventory_items(category);
`

const inventoryBatchesMigration = `
	CREATE TABLE IF NOT EXISTS inventory_batches (
		id UUID PRIMARY KEY,
		item_id UUID NOT NULL REFERENCES inventory_items(id),
		batch_number VARCHAR(100) NOT NULL,
		supplier VARCHAR(255),
		quantity_received INTEGER NOT NULL,
		quantity_remaining INTEGER NOT NULL,
		unit_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		received_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expiration_date TIMESTAMPTZ,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT inventory_batches_batch_number_unique UNIQUE (item_id, batch_number),
		CONSTRAINT quantity_non_negative CHECK (quantity_remaining >= 0),
		CONSTRAINT status_valid CHECK (status IN ('active', 'depleted', 'expired'))
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_batches_item ON inventory_batches(item_id);
	CREATE INDEX IF NOT EXISTS idx_inventory_batches_expiration ON inventory_batches(expiration_date);
`

const stockMovementsMigration = `
	CREATE TABLE IF NOT EXISTS stock_movements (
		id UUID PRIMARY KEY,
		item_id UUID NOT NULL REFERENCES inventory_items(id),
		item_name VARCHAR(255) NOT NULL,
		unit VARCHAR(50) NOT NULL,
		movement_type VARCHAR(20) NOT NULL,
		quantity INTEGER NOT NULL,
		unit_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		movement_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		batch_id UUID REFERENCES inventory_batches(id),
		location_id UUID REFERENCES storage_locations(id),
		location_name VARCHAR(255),
		reason TEXT,
		notes TEXT,
		performed_by UUID,
		performed_by_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT movement_type_valid CHECK (movement_type IN ('stock_in', 'stock_out', 'adjustment'))
	);
	CREATE INDEX IF NOT EXISTS idx_stock_movements_item ON stock_movements(item_id);
	CREATE INDEX IF NOT EXISTS idx_stock_movements_date ON stock_movements(movement_date);
`

const inventoryAlertsMigration = `
	CREATE TABLE IF NOT EXISTS inventory_alerts (
		id UUID PRIMARY KEY,
		alert_type VARCHAR(30) NOT NULL,
		item_id UUID NOT NULL REFERENCES inventory_items(id),
		item_name VARCHAR(255) NOT NULL,
		batch_id UUID REFERENCES inventory_batches(id),
		batch_number VARCHAR(100),
		severity VARCHAR(20) NOT NULL,
		message TEXT NOT NULL,
		expiration_date TIMESTAMPTZ,
		days_until_expiry INTEGER,
		current_stock INTEGER,
		threshold INTEGER,
		is_acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
		acknowledged_by UUID,
		acknowledged_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_alerts_item ON inventory_alerts(item_id);
	CREATE INDEX IF NOT EXISTS idx_inventory_alerts_unack ON inventory_alerts(is_acknowledged) WHERE NOT is_acknowledged;
`

const farmsMigration = `
	CREATE TABLE IF NOT EXISTS farms (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255),
		size NUMERIC(12,2) NOT NULL DEFAULT 0,
		size_unit VARCHAR(20) NOT NULL DEFAULT 'acres',
		directions TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

const cropsMigration = `
	CREATE TABLE IF NOT EXISTS crops (
		id UUID PRIMARY KEY,
		farm_id UUID NOT NULL REFERENCES farms(id),
		crop_type VARCHAR(100) NOT NULL,
		field VARCHAR(255),
		planting_date TIMESTAMPTZ NOT NULL,
		expected_harvest TIMESTAMPTZ,
		quantity NUMERIC(12,2) NOT NULL DEFAULT 0,
		quantity_unit VARCHAR(50) NOT NULL DEFAULT 'units',
		status VARCHAR(20) NOT NULL DEFAULT 'planted',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT crop_status_valid CHECK (status IN ('planted', 'growing', 'ready', 'harvested'))
	);
	CREATE INDEX IF NOT EXISTS idx_crops_farm ON crops(farm_id);
`

const farmTasksMigration = `
	CREATE TABLE IF NOT EXISTS farm_tasks (
		id UUID PRIMARY KEY,
		farm_id UUID NOT NULL REFERENCES farms(id),
		crop_id UUID REFERENCES crops(id),
		title VARCHAR(255) NOT NULL,
		description TEXT,
		task_type VARCHAR(50) NOT NULL DEFAULT 'general',
		due_date TIMESTAMPTZ,
		priority VARCHAR(20) NOT NULL DEFAULT 'medium',
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT task_priority_valid CHECK (priority IN ('low', 'medium', 'high'))
	);
	CREATE INDEX IF NOT EXISTS idx_farm_tasks_farm ON farm_tasks(farm_id);
	CREATE INDEX IF NOT EXISTS idx_farm_tasks_due ON farm_tasks(due_date) WHERE NOT completed;
`

const transactionsMigration = `
	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		farm_id UUID NOT NULL REFERENCES farms(id),
		type VARCHAR(20) NOT NULL,
		category VARCHAR(100) NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT transaction_type_valid CHECK (type IN ('income', 'expense'))
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_farm ON transactions(farm_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

const equipmentMigration = `
	CREATE TABLE IF NOT EXISTS equipment (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		serial_number VARCHAR(100),
		manufacturer VARCHAR(255),
		model VARCHAR(255),
		purchase_date TIMESTAMPTZ,
		cost NUMERIC(12,2),
		location VARCHAR(255),
		status VARCHAR(20) NOT NULL DEFAULT 'operational',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT equipment_status_valid CHECK (status IN ('operational', 'maintenance', 'repair', 'retired'))
	);
`
