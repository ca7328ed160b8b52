package assistantRepository

const (
	queryCreateBooking = `
		INSERT INTO demo_bookings (
			id, session_id, name, email, booking_date, booking_time, created_at
		) VALUES (
			:id, :session_id, :name, :email, :booking_date, :booking_time, :created_at
		)
	`

	queryGetLatestBookingBySession = `
		SELECT
			id, session_id, name, email, booking_date, booking_time, created_at
		FROM demo_bookings
		WHERE session_id = :session_id
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	queryListBookings = `
		SELECT
			id, session_id, name, email, booking_date, booking_time, created_at
		FROM demo_bookings
		ORDER BY created_at DESC, id DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountBookings = `
		SELECT COUNT(*)
		FROM demo_bookings
	`

	queryCreateCommandLog = `
		INSERT INTO command_logs (
			id, session_id, capture_id, path, transcript,
			intent, response, created_at
		) VALUES (
			:id, :session_id, :capture_id, :path, :transcript,
			:intent, :response, :created_at
		)
	`

	queryGetCommandLogsBySession = `
		SELECT
			id, session_id, capture_id, path, transcript,
			intent, response, created_at
		FROM command_logs
		WHERE session_id = :session_id
		ORDER BY created_at DESC, id DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandLogsBySession = `
		SELECT COUNT(*)
		FROM command_logs
		WHERE session_id = :session_id
	`
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS demo_bookings (
		id           VARCHAR(26) PRIMARY KEY,
		session_id   VARCHAR(128) NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		booking_date TEXT NOT NULL DEFAULT '',
		booking_time TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_demo_bookings_session ON demo_bookings (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS command_logs (
		id         VARCHAR(26) PRIMARY KEY,
		session_id VARCHAR(128) NOT NULL,
		capture_id VARCHAR(128) NOT NULL DEFAULT '',
		path       TEXT NOT NULL DEFAULT '/',
		transcript TEXT NOT NULL,
		intent     VARCHAR(32) NOT NULL,
		response   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_command_logs_session ON command_logs (session_id, created_at)`,
}
