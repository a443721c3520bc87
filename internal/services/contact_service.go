package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/madatlas/madatlas-be/internal/models"
)

// ContactServiceProvider defines the interface for contact message services.
type ContactServiceProvider interface {
	Submit(msg models.ContactMessage) (models.ContactMessage, error)
	Unnotified(limit int) ([]models.ContactMessage, error)
	MarkNotified(id int64) error
}

// ContactService persists contact form submissions. Rows double as the
// notification outbox: notified_at stays NULL until the operator email went
// out, so a failed send is retried on the next sweep.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

const contactColumns = "id, name, email, category, subject, message, created_at"

// sqlite stores CURRENT_TIMESTAMP as UTC text in this layout.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(sqliteTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func scanContact(scanner interface{ Scan(...interface{}) error }) (models.ContactMessage, error) {
	var msg models.ContactMessage
	var created string
	err := scanner.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Category, &msg.Subject, &msg.Message, &created)
	if err != nil {
		return msg, err
	}
	msg.CreatedAt, err = parseTimestamp(created)
	return msg, err
}

// Submit inserts a contact message and returns the stored row with its
// server-assigned id and created_at. Sending the operator notification is the
// notifier's job, never the caller's.
func (s *ContactService) Submit(msg models.ContactMessage) (models.ContactMessage, error) {
	res, err := s.db.Exec(
		"INSERT INTO contact_messages(name, email, category, subject, message) VALUES(?, ?, ?, ?, ?)",
		msg.Name, msg.Email, msg.Category, msg.Subject, msg.Message,
	)
	if err != nil {
		return models.ContactMessage{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.ContactMessage{}, err
	}
	return s.getByID(id)
}

func (s *ContactService) getByID(id int64) (models.ContactMessage, error) {
	row := s.db.QueryRow("SELECT "+contactColumns+" FROM contact_messages WHERE id = ?", id)
	msg, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContactMessage{}, ErrNotFound
		}
		return models.ContactMessage{}, err
	}
	return msg, nil
}

// Unnotified returns the oldest contact messages whose notification has not
// gone out yet.
func (s *ContactService) Unnotified(limit int) ([]models.ContactMessage, error) {
	rows, err := s.db.Query(
		"SELECT "+contactColumns+" FROM contact_messages WHERE notified_at IS NULL ORDER BY id ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.ContactMessage
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkNotified records that the operator notification for a message was sent.
func (s *ContactService) MarkNotified(id int64) error {
	_, err := s.db.Exec("UPDATE contact_messages SET notified_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	return err
}
