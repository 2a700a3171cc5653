package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"petoverse-backend/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_user_id,
	name, type,
	traits, commands, trained_words,
	wallet_address,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Type,
		toJSONSet(p.Traits),
		toJSONSet(p.Commands),
		toJSONSet(p.TrainedWords),
		toNullString(p.WalletAddress),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) GetByOwnerAndID(ctx context.Context, ownerUserID, petID string) (pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	petID = strings.TrimSpace(petID)
	if ownerUserID == "" || petID == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1 AND owner_user_id = $2
	`, petID, ownerUserID)

	return scanPet(row)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) ListAll(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) UpdateTrainedState(ctx context.Context, ownerUserID, petID string, commands, trainedWords []string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			commands = $3,
			trained_words = $4,
			updated_at = $5
		WHERE id = $1 AND owner_user_id = $2
	`,
		petID,
		ownerUserID,
		toJSONSet(commands),
		toJSONSet(trainedWords),
		time.Now(),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var traits, commands, words []byte
	var wallet sql.NullString

	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Type,
		&traits,
		&commands,
		&words,
		&wallet,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	var err error
	if p.Traits, err = fromJSONSet(traits); err != nil {
		return pets.Pet{}, err
	}
	if p.Commands, err = fromJSONSet(commands); err != nil {
		return pets.Pet{}, err
	}
	if p.TrainedWords, err = fromJSONSet(words); err != nil {
		return pets.Pet{}, err
	}

	if wallet.Valid {
		w := wallet.String
		p.WalletAddress = &w
	}

	return p, nil
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Los sets van como JSONB: pgx via database/sql no scannea text[] directo
// y el shape JSON es el mismo que viaja por el API.
func toJSONSet(set []string) []byte {
	if set == nil {
		set = []string{}
	}
	b, _ := json.Marshal(set)
	return b
}

func fromJSONSet(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode set column: %w", err)
	}
	return out, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
