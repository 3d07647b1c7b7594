package cron

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/email"
	"siamestates_backend/pkg/seo"
)

var (
	publisherMutex sync.Mutex
)

// InitBlogPublisherCron publishes due scheduled posts every 10 minutes.
func InitBlogPublisherCron() {
	c := cron.New()

	_, err := c.AddFunc("*/10 * * * *", func() {
		publisherMutex.Lock()
		defer publisherMutex.Unlock()
		PublishDuePosts()
	})

	if err != nil {
		log.Printf("Could not initialize blog publisher cron: %v", err)
		return
	}

	c.Start()
	log.Printf("Blog publisher cron initialized successfully")
}

// PublishDuePosts flips scheduled posts past their publish time to
// published, applying internal links first.
func PublishDuePosts() {
	db := database.GetDB()

	var due []model.ScheduledBlog
	err := db.Where("status = ? AND publish_at <= ?", model.BlogStatusScheduled, time.Now()).
		Find(&due).Error
	if err != nil {
		log.Printf("Error fetching due posts: %v", err)
		return
	}

	if len(due) == 0 {
		return
	}
	log.Printf("Publishing %d due blog posts", len(due))

	var links []model.InternalLink
	if err := db.Find(&links).Error; err != nil {
		log.Printf("Error fetching internal links: %v", err)
		return
	}
	linkMap := make(map[string]string, len(links))
	for _, l := range links {
		linkMap[l.Keyword] = l.TargetURL
	}

	for i := range due {
		post := &due[i]

		content, inserted := seo.ApplyInternalLinks(post.Content, linkMap)
		now := time.Now()

		updates := map[string]interface{}{
			"content":      content,
			"status":       model.BlogStatusPublished,
			"published_at": now,
		}

		if err := db.Model(post).Updates(updates).Error; err != nil {
			log.Printf("Error publishing post %d: %v", post.ID, err)
			db.Model(post).Updates(map[string]interface{}{
				"status":      model.BlogStatusFailed,
				"fail_reason": err.Error(),
			})
			continue
		}

		log.Printf("Published post %q with %d internal links", post.Title, inserted)

		var author model.User
		if err := db.First(&author, post.AuthorID).Error; err == nil {
			model.NotifyUser(db, author.ID, model.NotificationBlogPublished,
				"Post published", post.Title, "/dashboard/smart-blog/"+post.Slug)

			if email.GlobalEmailService != nil {
				name := author.GetFullName()
				if strings.TrimSpace(name) == "" {
					name = author.Username
				}
				err := email.GlobalEmailService.SendBlogPublishedEmail(author.Email, email.BlogPublishedData{
					AuthorName: name,
					Title:      post.Title,
					Slug:       post.Slug,
					SEOScore:   post.SEOScore,
				})
				if err != nil {
					log.Printf("Error sending blog published email: %v", err)
				}
			}
		}
	}
}
