// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reviews of titles and the comment threads under them.

Every reader may browse. Writing requires a token; editing or deleting an
existing review or comment additionally requires being its author or holding
the moderator role or above.

# Invariants

  - A user reviews a given title at most once.
  - A review's score lies within [1, 10].
  - A review is only reachable through the title it belongs to, and a comment
    only through its review; mismatched paths answer 404.
*/
package review

import (
	"time"
)

// # Domain Entities

// Review is one user's scored opinion of a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PubDate  time.Time `json:"pub_date"`
}

// Field names used in payloads and validation errors.
const (
	FieldText  = "text"
	FieldScore = "score"
)
