package postgres

const (
	countBlocksQuery = `SELECT count(*) FROM dig_blocks`

	seedBlocksQuery = `
INSERT INTO dig_blocks ("index", status)
SELECT i, 'undug' FROM generate_series(0, $1 - 1) AS i
ON CONFLICT ("index") DO NOTHING`

	selectBlocksQuery = `
SELECT "index", status, owner, dug_by, color, visual, dug_at
FROM dig_blocks
ORDER BY "index"`

	selectBlockForUpdateQuery = `
SELECT "index", status, owner, dug_by, color, visual, dug_at
FROM dig_blocks
WHERE "index" = $1
FOR UPDATE`

	updateBlockQuery = `
UPDATE dig_blocks
SET status = $2, owner = $3, dug_by = $4, color = $5, visual = $6, dug_at = $7
WHERE "index" = $1`

	deleteBlocksQuery = `DELETE FROM dig_blocks`

	insertBlockQuery = `
INSERT INTO dig_blocks ("index", status, owner, dug_by, color, visual, dug_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectUsersQuery = `SELECT username, data FROM dig_users ORDER BY username`

	deleteUsersQuery = `DELETE FROM dig_users`

	insertUserQuery = `INSERT INTO dig_users (username, data) VALUES ($1, $2)`
)
