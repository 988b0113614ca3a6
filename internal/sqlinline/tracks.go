// Package sqlinline keeps the SQL statements used by the repositories in one
// place. Each statement carries a stable marker comment so it can be located
// in database logs.
package sqlinline

const QInsertTrack = `--sql 7f3a9c1e-52d8-4b6f-8a01-3c9e5b7d2f44
INSERT INTO tracks (id, owner_id, title, video_id, source_url, storage_key, file_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at;
`

const QListTracksByOwner = `--sql 1b8d4e6a-93f2-47c5-b0da-6e21a8c4f973
SELECT id, owner_id, title, video_id, source_url, storage_key, file_url, created_at
FROM tracks
WHERE owner_id = $1
ORDER BY created_at DESC;
`

const QGetTrackByID = `--sql e5c27b90-1a46-4f83-9d52-847fb0c3a615
SELECT id, owner_id, title, video_id, source_url, storage_key, file_url, created_at
FROM tracks
WHERE id = $1 AND owner_id = $2;
`

const QDeleteTrack = `--sql 4d90f2c7-68be-41a3-a5e9-02c7d13f8b56
DELETE FROM tracks
WHERE id = $1 AND owner_id = $2;
`
