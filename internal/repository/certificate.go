package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/certmint/certmint/internal/model"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
)

type CertificateRepository interface {
	Insert(cert *model.Certificate) error
	List() ([]*model.Certificate, error)
	ByID(id string) (*model.Certificate, error)
}

type certificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Insert(cert *model.Certificate) error {
	query := `INSERT INTO certificates (id, name, usn, college, type, date, hours, filename, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		cert.ID,
		cert.Name,
		cert.USN,
		cert.College,
		cert.Type,
		cert.Date,
		cert.Hours,
		cert.Filename,
		cert.CreatedAt,
	)

	return err
}

func (r *certificateRepository) List() ([]*model.Certificate, error) {
	var certs []*model.Certificate

	query := `SELECT * FROM certificates ORDER BY created_at DESC`

	err := r.db.Select(&certs, query)
	if err != nil {
		return nil, err
	}

	return certs, nil
}

func (r *certificateRepository) ByID(id string) (*model.Certificate, error) {
	cert := &model.Certificate{}
	query := `SELECT * FROM certificates WHERE id = $1`

	err := r.db.Get(cert, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCertificateNotFound
	}

	return cert, err
}
