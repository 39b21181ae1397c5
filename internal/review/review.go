// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements the community contribution subsystem.

It manages reviews attached to catalogue titles and the comment threads
attached to reviews.

Core Responsibility:

  - Reviews: One review per user per title, carrying a 1-10 score.
  - Comments: Free-form discussion threads under each review.
  - Rating feed: Every review write invalidates the title's cached rating.

The one-review-per-title rule is enforced by a unique index in the database;
this package only translates its violation into a conflict response. Checking
before inserting could still race, the index can not.
*/
package review

import "time"

// Review is a single user's opinion of a title, with a 1-10 score.
type Review struct {
	ID       int64  `json:"id"`
	TitleID  int64  `json:"-"`
	AuthorID string `json:"-"`
	Author   string `json:"author"` // Username of the review author
	Text     string `json:"text"`
	Score    int    `json:"score"`

	CreatedAt time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}

// Comment is a reply in the discussion thread under a review.
type Comment struct {
	ID       int64  `json:"id"`
	ReviewID int64  `json:"-"`
	AuthorID string `json:"-"`
	Author   string `json:"author"` // Username of the comment author
	Text     string `json:"text"`

	CreatedAt time.Time `json:"pub_date"`
	UpdatedAt time.Time `json:"-"`
}

// ReviewInput carries a partial review update. Nil fields stay unchanged.
type ReviewInput struct {
	Text  *string
	Score *int
}

// Score bounds. Both ends are inclusive: 1 and 10 are valid scores.
const (
	MinScore = 1
	MaxScore = 10
)
