package query

import "fmt"

// Placeholders in every template first appear in ascending order. SQLite
// numbers $-parameters by first appearance, so $n only lines up with the
// n-th bind value when that holds.

// TagSeparator joins tag names inside the aggregated tag_list column.
const TagSeparator = "\x1f"

const userColumns = `users.id AS id,
       users.username AS username,
       users.email AS email,
       users.password AS password,
       users.bio AS bio,
       users.image AS image,
       users.created_at AS created_at,
       users.updated_at AS updated_at`

// SelectUser completes a single-row user lookup with a WHERE clause built
// over unique keys (id, username or email).
func SelectUser(where string) string {
	return "SELECT " + userColumns + " FROM users" + where
}

var (
	UserByID       = SelectUser(" WHERE users.id = $1")
	UserByUsername = SelectUser(" WHERE users.username = $1")
	UserByEmail    = SelectUser(" WHERE users.email = $1")
)

// ProfileByUsername returns a user plus whether viewer $1 follows them.
const ProfileByUsername = `SELECT ` + userColumns + `,
       EXISTS (SELECT 1 FROM follows
               WHERE follows.followed_id = users.id
                 AND follows.follower_id = $1) AS following
FROM users
WHERE users.username = $2`

// articleProjection computes the viewer-relative fields against $1.
const articleProjection = `SELECT articles.id AS id,
       articles.slug AS slug,
       articles.title AS title,
       articles.description AS description,
       articles.body AS body,
       articles.author_id AS author_id,
       articles.created_at AS created_at,
       articles.updated_at AS updated_at,
       users.username AS author_username,
       users.bio AS author_bio,
       users.image AS author_image,
       COALESCE((SELECT GROUP_CONCAT(tag_names.name, char(31))
                 FROM articletags AS tag_links
                 JOIN tags AS tag_names ON tag_names.id = tag_links.tag_id
                 WHERE tag_links.article_id = articles.id), '') AS tag_list,
       COUNT(DISTINCT favourite.user_id) AS favorites_count,
       EXISTS (SELECT 1 FROM favourite AS viewer_favourite
               WHERE viewer_favourite.article_id = articles.id
                 AND viewer_favourite.user_id = $1) AS favorited,
       EXISTS (SELECT 1 FROM follows AS viewer_follows
               WHERE viewer_follows.followed_id = articles.author_id
                 AND viewer_follows.follower_id = $1) AS following
FROM articles
JOIN users ON users.id = articles.author_id
LEFT JOIN favourite ON favourite.article_id = articles.id`

const articleFilterJoins = `
LEFT JOIN articletags ON articletags.article_id = articles.id
LEFT JOIN tags ON tags.id = articletags.tag_id`

// articleFilters renders the optional author, tag, favoriter and feed
// predicates starting at placeholder n. A NULL bind disables a predicate.
func articleFilters(n int) string {
	return fmt.Sprintf(`
WHERE (users.username = $%[1]d OR $%[1]d IS NULL)
  AND (tags.name = $%[2]d OR $%[2]d IS NULL)
  AND (EXISTS (SELECT 1 FROM favourite AS favoriter
               WHERE favoriter.article_id = articles.id
                 AND favoriter.user_id = $%[3]d) OR $%[3]d IS NULL)
  AND (EXISTS (SELECT 1 FROM follows AS feed
               WHERE feed.followed_id = articles.author_id
                 AND feed.follower_id = $%[4]d) OR $%[4]d IS NULL)`, n, n+1, n+2, n+3)
}

var (
	// ArticleList binds: $1 viewer, $2 author username, $3 tag, $4 favoriter
	// id, $5 feed follower id, $6 limit, $7 offset.
	ArticleList = articleProjection + articleFilterJoins + articleFilters(2) + `
GROUP BY articles.id
ORDER BY articles.created_at DESC, articles.id DESC
LIMIT $6 OFFSET $7`

	// ArticleCount binds: $1 author username, $2 tag, $3 favoriter id, $4 feed follower id.
	ArticleCount = `SELECT COUNT(*) AS total FROM (
SELECT articles.id
FROM articles
JOIN users ON users.id = articles.author_id` + articleFilterJoins + articleFilters(1) + `
GROUP BY articles.id)`
)

// ArticleBySlug binds: $1 viewer, $2 slug.
const ArticleBySlug = articleProjection + `
WHERE articles.slug = $2
GROUP BY articles.id`

const (
	ArticleIDBySlug = `SELECT id FROM articles WHERE slug = $1`
	ArticleOwnedBy  = `SELECT id FROM articles WHERE slug = $1 AND author_id = $2`
	SlugTaken       = `SELECT COUNT(*) FROM articles WHERE slug = $1`
	AllSlugs        = `SELECT slug FROM articles ORDER BY created_at DESC, id DESC`

	// DeleteOwnedArticle removes an article only when $2 authored it.
	DeleteOwnedArticle     = `DELETE FROM articles WHERE id = $1 AND author_id = $2`
	DeleteArticleTags      = `DELETE FROM articletags WHERE article_id = $1`
	DeleteArticleFavorites = `DELETE FROM favourite WHERE article_id = $1`
	DeleteArticleComments  = `DELETE FROM comments WHERE article_id = $1`
)

const (
	// UpsertTag inserts a tag name or resolves the existing row to its id.
	UpsertTag = `INSERT INTO tags (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = excluded.name
RETURNING id`
	LinkArticleTag = `INSERT INTO articletags (article_id, tag_id) VALUES ($1, $2)
ON CONFLICT (article_id, tag_id) DO NOTHING`
	AllTags = `SELECT name FROM tags ORDER BY name ASC`
)

const (
	FavoriteExists = `SELECT COUNT(*) FROM favourite WHERE article_id = $1 AND user_id = $2`
	DeleteFavorite = `DELETE FROM favourite WHERE article_id = $1 AND user_id = $2`
	FollowExists   = `SELECT COUNT(*) FROM follows WHERE follower_id = $1 AND followed_id = $2`
	DeleteFollow   = `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`
)

const commentProjection = `SELECT comments.id AS id,
       comments.body AS body,
       comments.article_id AS article_id,
       comments.author_id AS author_id,
       comments.created_at AS created_at,
       comments.updated_at AS updated_at,
       users.username AS author_username,
       users.bio AS author_bio,
       users.image AS author_image,
       EXISTS (SELECT 1 FROM follows
               WHERE follows.followed_id = comments.author_id
                 AND follows.follower_id = $1) AS following
FROM comments
JOIN users ON users.id = comments.author_id`

const (
	// CommentsByArticle binds: $1 viewer, $2 article id.
	CommentsByArticle = commentProjection + `
WHERE comments.article_id = $2
ORDER BY comments.created_at DESC, comments.id DESC`

	// CommentByID binds: $1 viewer, $2 article id, $3 comment id.
	CommentByID = commentProjection + `
WHERE comments.article_id = $2 AND comments.id = $3`

	// DeleteOwnedComment requires author, article and comment id to match.
	DeleteOwnedComment = `DELETE FROM comments WHERE author_id = $1 AND article_id = $2 AND id = $3`
)
