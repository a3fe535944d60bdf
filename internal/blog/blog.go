// Package blog holds the community content: fixture posts plus posts
// published from approved user submissions. Engagement counters and comments
// are in-memory only and reset on restart.
package blog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nawedy/melting-pot-plus/internal/model"
)

//go:embed posts.json
var postsJSON []byte

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrReplyTooDeep    = errors.New("replies cannot be nested")
)

type Store struct {
	mu    sync.RWMutex
	posts []model.BlogPost
}

func Load() (*Store, error) {
	s := &Store{}
	if err := json.Unmarshal(postsJSON, &s.posts); err != nil {
		return nil, fmt.Errorf("parse blog fixture: %w", err)
	}
	return s, nil
}

type Filter struct {
	Search   string
	Category string
	Tag      string
	Lang     string
}

// List scans posts against the filter. Search is a case-insensitive substring
// match over the localized title, excerpt, content, and category name plus
// tags, mirroring the storefront's search box.
func (s *Store) List(f Filter) []model.BlogPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.BlogPost
	for _, p := range s.posts {
		if f.Category != "" && p.Category.Slug != f.Category {
			continue
		}
		if f.Tag != "" && !hasTag(p.Tags, f.Tag) {
			continue
		}
		if f.Search != "" && !matches(p, f.Search, f.Lang) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) Get(id string) (*model.BlogPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i]
			return &p, true
		}
	}
	return nil, false
}

// Related scores every other post: 2 points for a shared category plus one
// per shared tag. Posts scoring zero are excluded; ties keep fixture order.
func (s *Store) Related(id string, max int) []model.BlogPost {
	current, ok := s.Get(id)
	if !ok {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		post  model.BlogPost
		score int
	}
	var candidates []scored
	for _, p := range s.posts {
		if p.ID == current.ID {
			continue
		}
		score := 0
		if p.Category.ID == current.Category.ID {
			score += 2
		}
		for _, tag := range p.Tags {
			if hasTag(current.Tags, tag) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{post: p, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]model.BlogPost, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

func (s *Store) Like(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Likes++
			return s.posts[i].Likes, true
		}
	}
	return 0, false
}

func (s *Store) Unlike(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			if s.posts[i].Likes > 0 {
				s.posts[i].Likes--
			}
			return s.posts[i].Likes, true
		}
	}
	return 0, false
}

// Share bumps the aggregate counter and the per-platform breakdown.
func (s *Store) Share(id, platform string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Shares++
			if s.posts[i].SocialShares == nil {
				s.posts[i].SocialShares = make(map[string]int)
			}
			s.posts[i].SocialShares[platform]++
			return s.posts[i].Shares, true
		}
	}
	return 0, false
}

func (s *Store) AddComment(postID string, author model.Author, content string) (*model.BlogComment, error) {
	comment := newComment(author, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Comments = append(s.posts[i].Comments, comment)
			return &comment, nil
		}
	}
	return nil, ErrPostNotFound
}

// AddReply attaches a reply to a top-level comment. Replying to a reply is
// rejected; threads stay two levels deep.
func (s *Store) AddReply(postID, commentID string, author model.Author, content string) (*model.BlogComment, error) {
	reply := newComment(author, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		for j := range s.posts[i].Comments {
			if s.posts[i].Comments[j].ID == commentID {
				s.posts[i].Comments[j].Replies = append(s.posts[i].Comments[j].Replies, reply)
				return &reply, nil
			}
			for _, r := range s.posts[i].Comments[j].Replies {
				if r.ID == commentID {
					return nil, ErrReplyTooDeep
				}
			}
		}
		return nil, ErrCommentNotFound
	}
	return nil, ErrPostNotFound
}

// LikeComment works on both top-level comments and replies.
func (s *Store) LikeComment(postID, commentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		for j := range s.posts[i].Comments {
			if s.posts[i].Comments[j].ID == commentID {
				s.posts[i].Comments[j].Likes++
				return s.posts[i].Comments[j].Likes, nil
			}
			for k := range s.posts[i].Comments[j].Replies {
				if s.posts[i].Comments[j].Replies[k].ID == commentID {
					s.posts[i].Comments[j].Replies[k].Likes++
					return s.posts[i].Comments[j].Replies[k].Likes, nil
				}
			}
		}
		return 0, ErrCommentNotFound
	}
	return 0, ErrPostNotFound
}

// Publish appends a post, typically one converted from an approved
// submission. An existing post with the same ID makes this a no-op so queue
// redeliveries stay harmless.
func (s *Store) Publish(post model.BlogPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			return
		}
	}
	s.posts = append(s.posts, post)
}

func newComment(author model.Author, content string) model.BlogComment {
	return model.BlogComment{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matches(p model.BlogPost, query, lang string) bool {
	q := strings.ToLower(query)
	fields := []string{
		p.Title.In(lang),
		p.Excerpt.In(lang),
		p.Content.In(lang),
		p.Category.Name.In(lang),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
