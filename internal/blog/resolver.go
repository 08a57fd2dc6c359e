package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/hermdev/graphql-basics/internal/logging"
	"github.com/hermdev/graphql-basics/internal/store"
)

// me is the synthetic user returned by the me query. It is not stored.
var me = store.User{ID: "1234", Name: "Herm", Email: "herm@gmail.com"}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report mutations.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	store *store.Store
	log   *zap.Logger
}

// NewResolver returns a root resolver reading and writing st.
func NewResolver(st *store.Store, opts ...Option) *Resolver {
	r := &Resolver{store: st, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSchema parses Schema against r.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r, opts...)
}

// MustNewSchema is like NewSchema but panics on error.
func MustNewSchema(r *Resolver, opts ...graphql.SchemaOpt) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r, opts...)
}

// contains reports whether substr is within s, ignoring case.
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *Resolver) Users(args struct{ Query *string }) []*userResolver {
	if args.Query == nil || *args.Query == "" {
		return r.usersOf(r.store.Users(nil))
	}
	q := *args.Query
	return r.usersOf(r.store.Users(func(u *store.User) bool {
		return contains(u.Name, q)
	}))
}

func (r *Resolver) Me() *userResolver {
	u := me
	return &userResolver{r: r, u: &u}
}

func (r *Resolver) Posts(args struct{ Query string }) []*postResolver {
	if args.Query == "" {
		return r.postsOf(r.store.Posts(nil))
	}
	return r.postsOf(r.store.Posts(func(p *store.Post) bool {
		if contains(p.Title, args.Query) {
			return true
		}
		return p.Body != nil && contains(*p.Body, args.Query)
	}))
}

func (r *Resolver) Comments(args struct{ Query string }) []*commentResolver {
	if args.Query == "" {
		return r.commentsOf(r.store.Comments(nil))
	}
	return r.commentsOf(r.store.Comments(func(c *store.Comment) bool {
		return contains(c.Text, args.Query)
	}))
}

type createUserArgs struct {
	Name  string
	Email string
	Age   *int32
}

func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*userResolver, error) {
	u, err := r.store.CreateUser(args.Name, args.Email, args.Age)
	if errors.Is(err, store.ErrEmailTaken) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	r.log.Info("user created",
		zap.String("id", u.ID),
		zap.String("request_id", logging.RequestID(ctx)),
	)
	return &userResolver{r: r, u: u}, nil
}

type createPostArgs struct {
	Title     string
	Body      string
	Published bool
	Author    graphql.ID
}

func (r *Resolver) CreatePost(ctx context.Context, args createPostArgs) (*postResolver, error) {
	body := args.Body
	p, err := r.store.CreatePost(args.Title, &body, args.Published, string(args.Author))
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}

	r.log.Info("post created",
		zap.String("id", p.ID),
		zap.String("author", p.Author),
		zap.String("request_id", logging.RequestID(ctx)),
	)
	return &postResolver{r: r, p: p}, nil
}

type createCommentArgs struct {
	Text   string
	Post   graphql.ID
	Author graphql.ID
}

// CreateComment is part of the schema but has no behavior yet; it always
// fails and never appends a comment.
func (r *Resolver) CreateComment(ctx context.Context, args createCommentArgs) (*commentResolver, error) {
	r.log.Warn("createComment called",
		zap.String("post", string(args.Post)),
		zap.String("author", string(args.Author)),
		zap.String("request_id", logging.RequestID(ctx)),
	)
	return nil, ErrNotImplemented
}

func (r *Resolver) usersOf(users []*store.User) []*userResolver {
	out := make([]*userResolver, len(users))
	for i, u := range users {
		out[i] = &userResolver{r: r, u: u}
	}
	return out
}

func (r *Resolver) postsOf(posts []*store.Post) []*postResolver {
	out := make([]*postResolver, len(posts))
	for i, p := range posts {
		out[i] = &postResolver{r: r, p: p}
	}
	return out
}

func (r *Resolver) commentsOf(comments []*store.Comment) []*commentResolver {
	out := make([]*commentResolver, len(comments))
	for i, c := range comments {
		out[i] = &commentResolver{r: r, c: c}
	}
	return out
}

// userByID returns nil when the id dangles.
func (r *Resolver) userByID(id string) *userResolver {
	u, ok := r.store.User(id)
	if !ok {
		return nil
	}
	return &userResolver{r: r, u: u}
}

func (r *Resolver) postByID(id string) *postResolver {
	p, ok := r.store.Post(id)
	if !ok {
		return nil
	}
	return &postResolver{r: r, p: p}
}
