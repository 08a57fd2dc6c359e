package store

// The demo dataset. All three seed users share one email; uniqueness is only
// checked when a user is created.
var seedUsers = []User{
	{ID: "1", Name: "herm", Email: "herm@gmail.com"},
	{ID: "2", Name: "gary", Email: "herm@gmail.com"},
	{ID: "3", Name: "steve", Email: "herm@gmail.com"},
}

var seedPosts = []Post{
	{ID: "1", Title: "new hope", Body: strP("worst"), Published: true, Author: "1"},
	{ID: "2", Title: "news hope", Body: strP("best"), Published: true, Author: "2"},
	{ID: "3", Title: "xzzzzz", Body: strP("worst"), Published: false, Author: "1"},
}

var seedComments = []Comment{
	{ID: "1", Text: "a comment", Post: "1", Author: "1"},
	{ID: "2", Text: "another comment", Post: "2", Author: "2"},
	{ID: "3", Text: "yet again", Post: "3", Author: "3"},
}

func strP(s string) *string {
	return &s
}
