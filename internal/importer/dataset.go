// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
)

// kind is how a CSV cell is converted before binding.
type kind int

const (
	kindText kind = iota
	kindInt
	kindTime
)

// column maps one CSV header onto a table column.
type column struct {
	header string
	name   string
	kind   kind

	// ref, when set, is a table whose id must already hold the cell value.
	ref string

	// fallback replaces an empty cell.
	fallback string
}

// dataset describes one CSV file and its destination table.
type dataset struct {
	name    string
	file    string
	table   string
	columns []column
}

// datasets lists every file in load order: referenced rows first.
var datasets = []dataset{
	{
		name: "users", file: "users.csv", table: schema.UserAccount.Table,
		columns: []column{
			{header: "id", name: schema.UserAccount.ID, kind: kindInt},
			{header: "username", name: schema.UserAccount.Username},
			{header: "email", name: schema.UserAccount.Email},
			{header: "role", name: schema.UserAccount.Role, fallback: "user"},
			{header: "bio", name: schema.UserAccount.Bio},
			{header: "first_name", name: schema.UserAccount.FirstName},
			{header: "last_name", name: schema.UserAccount.LastName},
		},
	},
	{
		name: "category", file: "category.csv", table: schema.CoreCategory.Table,
		columns: []column{
			{header: "id", name: schema.CoreCategory.ID, kind: kindInt},
			{header: "name", name: schema.CoreCategory.Name},
			{header: "slug", name: schema.CoreCategory.Slug},
		},
	},
	{
		name: "genre", file: "genre.csv", table: schema.CoreGenre.Table,
		columns: []column{
			{header: "id", name: schema.CoreGenre.ID, kind: kindInt},
			{header: "name", name: schema.CoreGenre.Name},
			{header: "slug", name: schema.CoreGenre.Slug},
		},
	},
	{
		name: "titles", file: "titles.csv", table: schema.CoreTitle.Table,
		columns: []column{
			{header: "id", name: schema.CoreTitle.ID, kind: kindInt},
			{header: "name", name: schema.CoreTitle.Name},
			{header: "year", name: schema.CoreTitle.Year, kind: kindInt},
			{header: "description", name: schema.CoreTitle.Description},
			{header: "category", name: schema.CoreTitle.CategoryID, kind: kindInt, ref: schema.CoreCategory.Table},
		},
	},
	{
		name: "genre_title", file: "genre_title.csv", table: schema.CoreGenreTitle.Table,
		columns: []column{
			{header: "id", name: schema.CoreGenreTitle.ID, kind: kindInt},
			{header: "title_id", name: schema.CoreGenreTitle.TitleID, kind: kindInt, ref: schema.CoreTitle.Table},
			{header: "genre_id", name: schema.CoreGenreTitle.GenreID, kind: kindInt, ref: schema.CoreGenre.Table},
		},
	},
	{
		name: "review", file: "review.csv", table: schema.SocialReview.Table,
		columns: []column{
			{header: "id", name: schema.SocialReview.ID, kind: kindInt},
			{header: "title_id", name: schema.SocialReview.TitleID, kind: kindInt, ref: schema.CoreTitle.Table},
			{header: "text", name: schema.SocialReview.Text},
			{header: "author", name: schema.SocialReview.AuthorID, kind: kindInt, ref: schema.UserAccount.Table},
			{header: "score", name: schema.SocialReview.Score, kind: kindInt},
			{header: "pub_date", name: schema.SocialReview.PubDate, kind: kindTime},
		},
	},
	{
		name: "comments", file: "comments.csv", table: schema.SocialComment.Table,
		columns: []column{
			{header: "id", name: schema.SocialComment.ID, kind: kindInt},
			{header: "review_id", name: schema.SocialComment.ReviewID, kind: kindInt, ref: schema.SocialReview.Table},
			{header: "text", name: schema.SocialComment.Text},
			{header: "author", name: schema.SocialComment.AuthorID, kind: kindInt, ref: schema.UserAccount.Table},
			{header: "pub_date", name: schema.SocialComment.PubDate, kind: kindTime},
		},
	},
}

func datasetByName(name string) (dataset, bool) {
	for _, set := range datasets {
		if set.name == name {
			return set, true
		}
	}
	return dataset{}, false
}

// bind selects the columns present in header, in header order.
func (set dataset) bind(header []string) ([]column, []int) {
	var (
		columns []column
		indexes []int
	)

	for index, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for _, col := range set.columns {
			if col.header == name {
				columns = append(columns, col)
				indexes = append(indexes, index)
			}
		}
	}

	return columns, indexes
}

// insertQuery builds the named get-or-create statement for columns.
func (set dataset) insertQuery(columns []column) string {
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.name
		params[i] = ":" + col.name
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		set.table, strings.Join(names, ", "), strings.Join(params, ", "))
}

// convert turns a raw cell into the value bound for col.
func (col column) convert(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = col.fallback
	}

	switch col.kind {
	case kindInt:
		if raw == "" {
			return nil, nil
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not an integer", col.header, raw)
		}
		return value, nil

	case kindTime:
		if raw == "" {
			return time.Now().UTC(), nil
		}
		value, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not an RFC 3339 timestamp", col.header, raw)
		}
		return value, nil
	}

	return raw, nil
}
