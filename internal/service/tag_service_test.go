package service

import (
	"context"
	"reflect"
	"testing"
)

func TestTagServiceListReturnsSortedNames(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	alice := svc.register(t, "alice")

	tags, err := svc.tags.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if tags == nil || len(tags) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", tags)
	}

	for _, input := range []ArticleInput{
		{Title: "One", Description: "d", Body: "b", TagList: []string{"rust", "go"}},
		{Title: "Two", Description: "d", Body: "b", TagList: []string{"go", "sql"}},
	} {
		if _, err := svc.articles.Create(ctx, alice.ID, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tags, err = svc.tags.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := []string{"go", "rust", "sql"}; !reflect.DeepEqual(tags, want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
}
