package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

const productColumns = `id, name, source_site, url, scrape_cadence,
	target_price, current_price, COALESCE(alert_email, ''), active,
	created_at, updated_at`

// Product queries.
const (
	queryCreateProduct = `
		INSERT INTO products (
			name, source_site, url, scrape_cadence,
			target_price, alert_email, active, created_at, updated_at
		) VALUES (
			@name, @source_site, @url, @scrape_cadence,
			@target_price, @alert_email, @active, now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetProduct = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	queryGetProductByURL = `
		SELECT ` + productColumns + `
		FROM products
		WHERE url = $1`

	queryListProductsAll = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC`

	queryListProductsActive = `
		SELECT ` + productColumns + `
		FROM products
		WHERE active
		ORDER BY created_at DESC`

	queryListProductsByCadence = `
		SELECT ` + productColumns + `
		FROM products
		WHERE active AND scrape_cadence = $1
		ORDER BY created_at`

	queryUpdateTargetPrice = `
		UPDATE products SET
			target_price = $2,
			updated_at = now()
		WHERE id = $1`

	querySetProductActive = `
		UPDATE products SET
			active = $2,
			updated_at = now()
		WHERE id = $1`

	queryUpdateCurrentPrice = `
		UPDATE products SET
			current_price = $2,
			updated_at = now()
		WHERE id = $1`

	queryDeleteProduct = `DELETE FROM products WHERE id = $1`
)

// Price history queries.
const (
	queryInsertPricePoint = `
		INSERT INTO price_history (
			product_id, price, availability, currency, recorded_at
		) VALUES (
			@product_id, @price, @availability, @currency, now()
		)
		RETURNING id, recorded_at`

	queryListPriceHistory = `
		SELECT id, product_id, price, availability, currency, recorded_at
		FROM price_history
		WHERE product_id = $1 AND recorded_at >= now() - make_interval(days => $2)
		ORDER BY recorded_at DESC`

	queryGetPriceAnalytics = `
		SELECT MIN(price), MAX(price), AVG(price), COUNT(*)
		FROM price_history
		WHERE product_id = $1 AND recorded_at >= now() - make_interval(days => $2)`
)

// Alert queries.
const (
	queryCreateAlert = `
		INSERT INTO alerts (
			product_id, kind, trigger_price, previous_price,
			percent_change, email, notified, triggered_at
		) VALUES (
			@product_id, @kind, @trigger_price, @previous_price,
			@percent_change, @email, false, now()
		)
		RETURNING id, triggered_at`

	queryListPendingAlerts = `
		SELECT id, product_id, kind, trigger_price, previous_price,
			percent_change, COALESCE(email, ''), notified, notified_at, triggered_at
		FROM alerts
		WHERE NOT notified
		ORDER BY triggered_at`

	queryListAlertsByProduct = `
		SELECT id, product_id, kind, trigger_price, previous_price,
			percent_change, COALESCE(email, ''), notified, notified_at, triggered_at
		FROM alerts
		WHERE product_id = $1
		ORDER BY triggered_at DESC
		LIMIT $2`

	queryMarkAlertNotified = `
		UPDATE alerts SET
			notified = true,
			notified_at = now()
		WHERE id = $1`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, started_at, status)
		VALUES ($1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status = $2,
			error_text = NULLIF($3, ''),
			rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at,
			status, COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name) id, job_name, started_at, completed_at,
			status, COALESCE(error_text, ''), rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`
)
