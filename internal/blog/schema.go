// Package blog implements the users/posts/comments GraphQL API on top of
// the in-memory store.
package blog

// Schema is the GraphQL type system served by the API.
const Schema = `
    type Query {
        users(query: String): [User!]!
        me: User!
        posts(query: String!): [Post!]!
        comments(query: String!): [Comment!]!
    }

    type Mutation {
        createUser(name: String!, email: String!, age: Int): User!
        createPost(title: String!, body: String!, published: Boolean!, author: ID!): Post!
        createComment(text: String!, post: ID!, author: ID!): Comment!
    }

    type User {
        id: ID!
        name: String!
        email: String!
        age: Int
        posts: [Post!]!
        comments: [Comment!]!
    }

    type Post {
        id: ID!
        title: String!
        body: String
        published: Boolean!
        author: User!
        comments: [Comment!]!
    }

    type Comment {
        id: ID!
        text: String!
        post: Post!
        author: User!
    }
`
