// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Every seeded account gets this password so seeded data is usable from the
// login form.
const SeedPassword = "a long enough password"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumFollows  int
	ShouldClean bool
}

// Seeder populates the database with generated users, posts and follow edges.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users, %d posts, %d follows...", opts.NumUsers, opts.NumPosts, opts.NumFollows)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	follows, err := s.SeedFollows(users, opts.NumFollows)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("created %d follow edges", follows)

	return nil
}

// ClearAll removes all seeded data. Follows and posts go first so user
// deletion does not trip foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{&models.Follow{}, &models.Post{}, &models.User{}} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates n accounts with usable credentials.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := strings.ToLower(fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 999)))
		users = append(users, models.User{
			Username: sanitizeUsername(username),
			Email:    strings.ToLower(gofakeit.Email()),
			Password: string(hash),
		})
	}

	if err := s.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SeedPosts creates n posts spread over the given users with a realistic
// created_at spread.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		posts = append(posts, models.Post{
			Title:     gofakeit.Sentence(s.rand.Intn(5) + 3),
			Body:      gofakeit.Paragraph(1, s.rand.Intn(4)+1, 8, "\n\n"),
			AuthorID:  author.ID,
			CreatedAt: time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour),
		})
	}

	if err := s.db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SeedFollows creates up to n distinct follow edges between random users.
func (s *Seeder) SeedFollows(users []models.User, n int) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	type edge struct{ followed, visitor uint }
	seen := make(map[edge]bool)
	created := 0

	// Bounded attempts: a dense follow graph on few users runs out of
	// unique edges before reaching n.
	for attempts := 0; created < n && attempts < n*4; attempts++ {
		followed := users[s.rand.Intn(len(users))]
		visitor := users[s.rand.Intn(len(users))]
		if followed.ID == visitor.ID {
			continue
		}
		e := edge{followed.ID, visitor.ID}
		if seen[e] {
			continue
		}
		seen[e] = true

		if err := s.db.Create(&models.Follow{
			FollowedID: followed.ID,
			VisitorID:  visitor.ID,
		}).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// sanitizeUsername strips anything the registration form would reject so the
// seeded accounts match real ones.
func sanitizeUsername(username string) string {
	var b strings.Builder
	for _, r := range username {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) < 3 {
		out = out + fmt.Sprintf("user%d", gofakeit.Number(100, 999))
	}
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}
