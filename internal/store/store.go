// Package store holds the in-memory users, posts and comments tables that
// back the GraphQL API.
//
// Tables are append-only. Reads return copies of the stored records so
// callers never share memory with the tables.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned by CreateUser when another user already has the email.
	ErrEmailTaken = errors.New("email taken")
	// ErrUserNotFound is returned when a referenced user id does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when a referenced post id does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// User is a row of the users table.
type User struct {
	ID    string
	Name  string
	Email string
	Age   *int32
}

// Post is a row of the posts table. Author holds a User.ID.
type Post struct {
	ID        string
	Title     string
	Body      *string
	Published bool
	Author    string
}

// Comment is a row of the comments table. Post holds a Post.ID and Author a User.ID.
type Comment struct {
	ID     string
	Text   string
	Post   string
	Author string
}

// Stats reports the number of rows per table.
type Stats struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv4 generator used for new rows.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store owns the three tables. A single mutex guards all of them, so a
// validation and the append that follows it are atomic.
type Store struct {
	mu       sync.RWMutex
	users    []User
	posts    []Post
	comments []Comment
	newID    func() string
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded returns a Store populated with the demo dataset.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.users = append(s.users, seedUsers...)
	s.posts = append(s.posts, seedPosts...)
	s.comments = append(s.comments, seedComments...)
	return s
}

// Users returns every user accepted by match, in insertion order. A nil
// match accepts all rows.
func (s *Store) Users(match func(*User) bool) []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*User
	for i := range s.users {
		u := s.users[i]
		if match == nil || match(&u) {
			out = append(out, &u)
		}
	}
	return out
}

// Posts returns every post accepted by match, in insertion order.
func (s *Store) Posts(match func(*Post) bool) []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Post
	for i := range s.posts {
		p := s.posts[i]
		if match == nil || match(&p) {
			out = append(out, &p)
		}
	}
	return out
}

// Comments returns every comment accepted by match, in insertion order.
func (s *Store) Comments(match func(*Comment) bool) []*Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Comment
	for i := range s.comments {
		c := s.comments[i]
		if match == nil || match(&c) {
			out = append(out, &c)
		}
	}
	return out
}

// User looks up a user by id.
func (s *Store) User(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.userIndex(id); i >= 0 {
		u := s.users[i]
		return &u, true
	}
	return nil, false
}

// Post looks up a post by id.
func (s *Store) Post(id string) (*Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.postIndex(id); i >= 0 {
		p := s.posts[i]
		return &p, true
	}
	return nil, false
}

// PostsByAuthor returns the posts written by the given user.
func (s *Store) PostsByAuthor(userID string) []*Post {
	return s.Posts(func(p *Post) bool { return p.Author == userID })
}

// CommentsByAuthor returns the comments written by the given user.
func (s *Store) CommentsByAuthor(userID string) []*Comment {
	return s.Comments(func(c *Comment) bool { return c.Author == userID })
}

// CommentsByPost returns the comments attached to the given post.
func (s *Store) CommentsByPost(postID string) []*Comment {
	return s.Comments(func(c *Comment) bool { return c.Post == postID })
}

// CreateUser appends a user with a fresh id. The email must not be used by
// any existing user; the comparison is exact.
func (s *Store) CreateUser(name, email string, age *int32) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email {
			return nil, ErrEmailTaken
		}
	}

	u := User{
		ID:    s.newID(),
		Name:  name,
		Email: email,
		Age:   age,
	}
	s.users = append(s.users, u)
	return &u, nil
}

// CreatePost appends a post with a fresh id. The author must exist.
func (s *Store) CreatePost(title string, body *string, published bool, author string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(author) < 0 {
		return nil, ErrUserNotFound
	}

	p := Post{
		ID:        s.newID(),
		Title:     title,
		Body:      body,
		Published: published,
		Author:    author,
	}
	s.posts = append(s.posts, p)
	return &p, nil
}

// CreateComment appends a comment with a fresh id. Both the post and the
// author must exist.
func (s *Store) CreateComment(text, post, author string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(author) < 0 {
		return nil, ErrUserNotFound
	}
	if s.postIndex(post) < 0 {
		return nil, ErrPostNotFound
	}

	c := Comment{
		ID:     s.newID(),
		Text:   text,
		Post:   post,
		Author: author,
	}
	s.comments = append(s.comments, c)
	return &c, nil
}

// Stats returns the current table sizes.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Users:    len(s.users),
		Posts:    len(s.posts),
		Comments: len(s.comments),
	}
}

func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) postIndex(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}
