package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/service"
	"github.com/spf13/cobra"
)

type seedArticle struct {
	author string
	input  service.ArticleInput
}

var seedUsers = []string{"alice", "bob", "carol"}

var seedArticles = []seedArticle{
	{author: "alice", input: service.ArticleInput{
		Title:       "Getting Started with Conduit",
		Description: "A tour of the API",
		Body:        "## Accounts\n\nRegister, log in and send `Authorization: Token <jwt>`.",
		TagList:     []string{"intro", "api"},
	}},
	{author: "bob", input: service.ArticleInput{
		Title:       "Writing Good Slugs",
		Description: "Titles become URLs",
		Body:        "Slugs are derived from titles. Duplicates get a short suffix.",
		TagList:     []string{"api", "urls"},
	}},
	{author: "carol", input: service.ArticleInput{
		Title:       "Following Authors",
		Description: "Build a personal feed",
		Body:        "Follow a profile and their articles show up in `/api/articles/feed`.",
		TagList:     []string{"feed"},
	}},
}

// seedCmd 生成本地调试用的测试数据，已存在的记录会被跳过
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, articles and comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := db.Migrate(a.db); err != nil {
			return err
		}
		return seed(cmd.Context(), a, cmd.OutOrStdout())
	},
}

func seed(ctx context.Context, a *app, out io.Writer) error {
	run := service.NewRunner(a.db, a.cfg.QueryTimeout, a.log)
	profiles := service.NewProfileService(run)
	articles := service.NewArticleService(run)
	comments := service.NewCommentService(run)

	ids := make(map[string]int64, len(seedUsers))
	for _, name := range seedUsers {
		user, err := a.users.Register(ctx, service.RegisterInput{
			Username: name,
			Email:    name + "@example.com",
			Password: name + "-password",
		})
		if apperr.Is(err, apperr.KindConflict) {
			if user, err = a.users.Login(ctx, name+"@example.com", name+"-password"); err != nil {
				return fmt.Errorf("seed user %s exists with another password: %w", name, err)
			}
		} else if err != nil {
			return err
		}
		ids[name] = user.ID
		fmt.Fprintf(out, "user %s (password %s-password)\n", name, name)
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "carol"}, {"carol", "alice"}} {
		if _, err := profiles.Follow(ctx, ids[pair[0]], pair[1]); err != nil && !apperr.Is(err, apperr.KindConflict) {
			return err
		}
	}

	for i, item := range seedArticles {
		slug := service.Slugify(item.input.Title)
		if _, err := articles.Get(ctx, 0, slug); err == nil {
			continue
		}
		article, err := articles.Create(ctx, ids[item.author], item.input)
		if err != nil {
			return err
		}
		fan := seedUsers[(i+1)%len(seedUsers)]
		if _, err := articles.Favorite(ctx, ids[fan], article.Slug); err != nil {
			return err
		}
		if _, err := comments.Add(ctx, ids[fan], article.Slug, "Thanks for writing this up!"); err != nil {
			return err
		}
		fmt.Fprintf(out, "article %s by %s\n", article.Slug, item.author)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
