package blog

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/hermdev/graphql-basics/internal/store"
)

type userResolver struct {
	r *Resolver
	u *store.User
}

func (u *userResolver) ID() graphql.ID {
	return graphql.ID(u.u.ID)
}

func (u *userResolver) Name() string {
	return u.u.Name
}

func (u *userResolver) Email() string {
	return u.u.Email
}

func (u *userResolver) Age() *int32 {
	return u.u.Age
}

func (u *userResolver) Posts() []*postResolver {
	return u.r.postsOf(u.r.store.PostsByAuthor(u.u.ID))
}

func (u *userResolver) Comments() []*commentResolver {
	return u.r.commentsOf(u.r.store.CommentsByAuthor(u.u.ID))
}

type postResolver struct {
	r *Resolver
	p *store.Post
}

func (p *postResolver) ID() graphql.ID {
	return graphql.ID(p.p.ID)
}

func (p *postResolver) Title() string {
	return p.p.Title
}

func (p *postResolver) Body() *string {
	return p.p.Body
}

func (p *postResolver) Published() bool {
	return p.p.Published
}

func (p *postResolver) Author() *userResolver {
	return p.r.userByID(p.p.Author)
}

func (p *postResolver) Comments() []*commentResolver {
	return p.r.commentsOf(p.r.store.CommentsByPost(p.p.ID))
}

type commentResolver struct {
	r *Resolver
	c *store.Comment
}

func (c *commentResolver) ID() graphql.ID {
	return graphql.ID(c.c.ID)
}

func (c *commentResolver) Text() string {
	return c.c.Text
}

func (c *commentResolver) Post() *postResolver {
	return c.r.postByID(c.c.Post)
}

func (c *commentResolver) Author() *userResolver {
	return c.r.userByID(c.c.Author)
}
