package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Verify interface implementation.
var _ driven.DocumentStore = (*documentStore)(nil)

type documentStore struct {
	store *Store
}

const documentColumns = `id, title, url, content, metadata, updated_at, indexed_at`

const chunkColumns = `id, document_id, position, start_offset, end_offset, overlap,
	content, token_count, embedding, embedding_model`

func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if doc.Metadata == nil {
		metadata = []byte("{}")
	}

	_, err = d.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			content = excluded.content,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at,
			indexed_at = excluded.indexed_at
	`,
		doc.ID, doc.Title, doc.URL, doc.Content, string(metadata),
		unixOrZero(doc.UpdatedAt), unixOrZero(doc.IndexedAt),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (d *documentStore) SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		if c.DocumentID != documentID {
			return fmt.Errorf("%w: chunk %s belongs to %s", domain.ErrInvalidInput, c.ID, c.DocumentID)
		}
		var embedding []byte
		if len(c.Embedding) > 0 {
			embedding = float32SliceToBytes(c.Embedding)
		}
		_, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Position, c.Start, c.End, c.Overlap,
			c.Content, c.TokenCount, embedding, c.EmbeddingModel,
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func (d *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

func (d *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE document_id = ? ORDER BY position", documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *c)
	}
	return chunks, rows.Err()
}

func (d *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := d.store.db.QueryRowContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)
	c, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (d *documentStore) DeleteDocument(ctx context.Context, id string) error {
	// chunks go with the document through ON DELETE CASCADE
	result, err := d.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (d *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (d *documentStore) EachChunk(ctx context.Context, fn func(domain.Chunk) error) error {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return err
		}
		if err := fn(*c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (d *documentStore) Stats(ctx context.Context) (driven.StoreStats, error) {
	var stats driven.StoreStats
	row := d.store.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM chunks),
			(SELECT COALESCE(MAX(indexed_at), 0) FROM documents)
	`)
	if err := row.Scan(&stats.Documents, &stats.Chunks, &stats.LastIndexed); err != nil {
		return stats, fmt.Errorf("reading stats: %w", err)
	}
	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*domain.Document, error) {
	var (
		doc       domain.Document
		metadata  string
		updatedAt int64
		indexedAt int64
	)
	err := s.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Content, &metadata, &updatedAt, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if metadata != "" && metadata != "{}" && metadata != "null" {
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	doc.UpdatedAt = timeOrZero(updatedAt)
	doc.IndexedAt = timeOrZero(indexedAt)
	return &doc, nil
}

func scanChunk(s scanner) (*domain.Chunk, error) {
	var (
		c         domain.Chunk
		embedding []byte
	)
	err := s.Scan(&c.ID, &c.DocumentID, &c.Position, &c.Start, &c.End, &c.Overlap,
		&c.Content, &c.TokenCount, &embedding, &c.EmbeddingModel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	if len(embedding) > 0 {
		c.Embedding = bytesToFloat32Slice(embedding)
	}
	return &c, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// float32SliceToBytes encodes a vector as little-endian float32s.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
