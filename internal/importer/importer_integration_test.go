// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/importer"
	"github.com/taibuivan/yamdb/internal/platform/database/dbtest"
)

/*
TestImporter_Postgres seeds a real schema twice: the second run inserts nothing,
and rows created afterwards receive ids past the imported ones.
*/
func TestImporter_Postgres(t *testing.T) {
	pool, dsn := dbtest.Start(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeCSV(t, dir, "users.csv", "id,username,email,role,bio,first_name,last_name\n"+
		"100,bingobongo,bingobongo@yamdb.fake,user,,,\n"+
		"101,capt_obvious,capt_obvious@yamdb.fake,admin,,,\n")
	writeCSV(t, dir, "category.csv", "id,name,slug\n1,Фильм,movie\n2,Книга,book\n")
	writeCSV(t, dir, "genre.csv", "id,name,slug\n1,Драма,drama\n")
	writeCSV(t, dir, "titles.csv", "id,name,year,category\n1,Побег из Шоушенка,1994,1\n2,Потерянный,2001,7\n")
	writeCSV(t, dir, "genre_title.csv", "id,title_id,genre_id\n1,1,1\n")
	writeCSV(t, dir, "review.csv", "id,title_id,text,author,score,pub_date\n"+
		"1,1,Ремарк удивительный,100,10,2019-09-24T21:08:21.567Z\n"+
		"2,1,Ну такое,101,5,2019-09-24T21:08:21.567Z\n")
	writeCSV(t, dir, "comments.csv", "id,review_id,text,author,pub_date\n1,1,Согласен,101,2019-09-24T21:08:21.567Z\n")

	db, err := importer.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := quietLogger()

	// ── 1. First load ──
	summary, err := importer.New(db, logger).Run(ctx, importer.Manifest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed(), "title with unknown category is skipped")

	var rating float64
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT ROUND(AVG(score), 1)::float8 FROM social.review WHERE titleid = 1`).Scan(&rating))
	assert.Equal(t, 7.5, rating)

	// ── 2. Re-run is idempotent ──
	summary, err = importer.New(db, logger).Run(ctx, importer.Manifest{Dir: dir})
	require.NoError(t, err)
	for _, file := range summary.Files {
		assert.Zero(t, file.Inserted, file.Dataset)
	}

	// ── 3. Sequences moved past imported ids ──
	var categoryID, accountID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO core.category (name, slug) VALUES ('Музыка', 'music') RETURNING id`).Scan(&categoryID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO users.account (username, email) VALUES ('newcomer', 'newcomer@yamdb.fake') RETURNING id`).Scan(&accountID))
	assert.Equal(t, int64(3), categoryID)
	assert.Equal(t, int64(102), accountID)
}
