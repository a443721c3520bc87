package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/madatlas/madatlas-be/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	Create(post models.Post) (models.Post, error)
	List(typeFilter string) ([]models.Post, error)
	GetByID(id int64) (models.Post, error)
	Update(id int64, patch models.PostUpdate) (models.Post, error)
	Delete(id int64) (bool, error)
}

// PostService provides business logic for content posts.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

const postColumns = "id, title, content, excerpt, category, author, date, read_time, image, featured, tags_json, type"

// scanPost is a helper to scan a post from a row or rows object.
func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var excerpt, category, date, readTime, image, tags sql.NullString

	err := scanner.Scan(
		&post.ID, &post.Title, &post.Content, &excerpt, &category,
		&post.Author, &date, &readTime, &image, &post.Featured, &tags, &post.Type,
	)
	if err != nil {
		return post, err
	}

	post.Excerpt = excerpt.String
	post.Category = category.String
	post.Date = date.String
	post.ReadTime = readTime.String
	post.Image = image.String
	post.TagsJSON = tags.String

	post.PrepareForAPI()
	return post, nil
}

// Create inserts a new post and returns the stored row.
func (s *PostService) Create(post models.Post) (models.Post, error) {
	if !models.IsValidPostType(post.Type) {
		return models.Post{}, ErrInvalidPostType
	}
	post.PrepareForSave()

	const query = `
		INSERT INTO posts(title, content, excerpt, category, author, date, read_time, image, featured, tags_json, type)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query,
		post.Title, post.Content, post.Excerpt, post.Category, post.Author,
		post.Date, post.ReadTime, post.Image, post.Featured, post.TagsJSON, post.Type,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}
	return s.GetByID(id)
}

// List retrieves all posts, or only those of the given type when typeFilter is
// non-empty, ordered by id ascending.
func (s *PostService) List(typeFilter string) ([]models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts ORDER BY id ASC"
	args := []interface{}{}
	if typeFilter != "" {
		query = "SELECT " + postColumns + " FROM posts WHERE type = ? ORDER BY id ASC"
		args = append(args, typeFilter)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetByID retrieves a single post by its ID.
func (s *PostService) GetByID(id int64) (models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

// Update applies a partial patch to a post: only non-nil fields change. It
// returns ErrNotFound, without writing anything, when no row matches.
func (s *PostService) Update(id int64, patch models.PostUpdate) (models.Post, error) {
	if patch.Type != nil && !models.IsValidPostType(*patch.Type) {
		return models.Post{}, ErrInvalidPostType
	}

	sets := make([]string, 0, 11)
	args := make([]interface{}, 0, 12)
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		set("excerpt", *patch.Excerpt)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Author != nil {
		set("author", *patch.Author)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.ReadTime != nil {
		set("read_time", *patch.ReadTime)
	}
	if patch.Image != nil {
		set("image", *patch.Image)
	}
	if patch.Featured != nil {
		set("featured", *patch.Featured)
	}
	if patch.Tags != nil {
		b, err := json.Marshal(*patch.Tags)
		if err != nil {
			return models.Post{}, fmt.Errorf("failed to encode tags: %w", err)
		}
		set("tags_json", string(b))
	}
	if patch.Type != nil {
		set("type", *patch.Type)
	}

	if len(sets) == 0 {
		// Nothing to change; still report whether the post exists.
		return s.GetByID(id)
	}

	args = append(args, id)
	res, err := s.db.Exec("UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return models.Post{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, err
	}
	if affected == 0 {
		return models.Post{}, ErrNotFound
	}

	return s.GetByID(id)
}

// Delete removes a post and reports whether a row was actually removed.
func (s *PostService) Delete(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
