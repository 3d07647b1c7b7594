package controller

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/ai"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/seo"
	"siamestates_backend/pkg/utils/jwt"
	"siamestates_backend/pkg/utils/storage"
)

type GenerateBlogInput struct {
	Topic         string   `json:"topic" validate:"required"`
	Keywords      []string `json:"keywords" validate:"required"`
	GenerateCover bool     `json:"generate_cover"`
}

// GenerateBlog asks the AI client for a draft, scores it, and stores it as
// a draft post owned by the caller.
func GenerateBlog(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(GenerateBlogInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Topic == "" || len(input.Keywords) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Topic and at least one keyword are required",
		})
	}

	if ai.GlobalClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Content generation is not configured",
		})
	}

	draft, err := ai.GlobalClient.GenerateBlogDraft(input.Topic, input.Keywords)
	if err != nil {
		log.Printf("Could not generate blog draft: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not generate draft content",
		})
	}

	keywordsJSON, err := json.Marshal(input.Keywords)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode keywords",
		})
	}

	post := model.ScheduledBlog{
		Title:           draft.Title,
		Topic:           input.Topic,
		Keywords:        datatypes.JSON(keywordsJSON),
		Content:         draft.Content,
		MetaDescription: draft.MetaDescription,
		Status:          model.BlogStatusDraft,
		AuthorID:        claims.UserID,
	}

	if err := database.GetDB().Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save draft",
		})
	}

	if input.GenerateCover {
		cover, err := ai.GlobalClient.GenerateCoverImage(
			"Wide photographic cover image for a real-estate blog post titled: " + draft.Title)
		if err != nil {
			log.Printf("Could not generate cover image: %v", err)
		} else {
			result, err := storage.UploadBlogCover(post.Slug, "cover.png", "image/png", cover)
			if err != nil {
				log.Printf("Could not upload cover image: %v", err)
			} else {
				database.GetDB().Model(&post).Update("cover_image_url", result.URL)
				post.CoverImageURL = result.URL
			}
		}
	}

	report := scorePost(&post)
	database.GetDB().Model(&post).Update("seo_score", report.Score)
	post.SEOScore = report.Score

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post":       post,
		"seo_report": report,
	})
}

type ScheduleInput struct {
	PostID    uint      `json:"post_id" validate:"required"`
	PublishAt time.Time `json:"publish_at" validate:"required"`
}

// ScheduleBlog places a draft on the calendar. At most one post per
// calendar day; no past dates.
func ScheduleBlog(c *fiber.Ctx) error {
	input := new(ScheduleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var post model.ScheduledBlog
	if err := database.GetDB().First(&post, input.PostID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if post.Status == model.BlogStatusPublished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This post has already been published",
		})
	}

	msg, conflict, err := checkSchedule(database.GetDB(), input.PublishAt, post.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check the calendar",
		})
	}
	if msg != "" {
		resp := fiber.Map{"error": msg}
		if conflict != nil {
			resp["conflicting_post"] = fiber.Map{
				"id":         conflict.ID,
				"title":      conflict.Title,
				"publish_at": conflict.PublishAt,
			}
			return c.Status(fiber.StatusConflict).JSON(resp)
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	updates := map[string]interface{}{
		"status":     model.BlogStatusScheduled,
		"publish_at": input.PublishAt,
	}
	if err := database.GetDB().Model(&post).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not schedule post",
		})
	}

	database.GetDB().First(&post, post.ID)
	return c.JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"post":    post,
	})
}

// checkSchedule applies the calendar rules. A non-empty message is a
// validation failure; a non-nil error is a database failure.
func checkSchedule(db *gorm.DB, publishAt time.Time, excludeID uint) (string, *model.ScheduledBlog, error) {
	if publishAt.Before(nowFunc()) {
		return "Publish date must be in the future", nil, nil
	}

	conflict, err := model.ScheduleConflict(db, publishAt, excludeID)
	if err != nil {
		return "", nil, err
	}
	if conflict != nil {
		return "Another post is already scheduled for that day", conflict, nil
	}

	return "", nil, nil
}

// UnscheduleBlog moves a scheduled post back to draft.
func UnscheduleBlog(c *fiber.Ctx) error {
	id := c.Params("id")

	var post model.ScheduledBlog
	if err := database.GetDB().First(&post, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if post.Status != model.BlogStatusScheduled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only scheduled posts can be unscheduled",
		})
	}

	updates := map[string]interface{}{
		"status":     model.BlogStatusDraft,
		"publish_at": nil,
	}
	if err := database.GetDB().Model(&post).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unschedule post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetBlogCalendar returns the posts of a month, keyed by day.
func GetBlogCalendar(c *fiber.Ctx) error {
	month := c.Query("month") // YYYY-MM
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month, expected YYYY-MM",
		})
	}
	end := start.AddDate(0, 1, 0)

	var posts []model.ScheduledBlog
	err = database.GetDB().
		Where("status IN ? AND publish_at >= ? AND publish_at < ?",
			[]model.BlogStatus{model.BlogStatusScheduled, model.BlogStatusPublished}, start, end).
		Order("publish_at asc").
		Find(&posts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch calendar",
		})
	}

	calendar := make(map[string][]model.ScheduledBlog)
	for _, post := range posts {
		day := post.PublishAt.Format("2006-01-02")
		calendar[day] = append(calendar[day], post)
	}

	return c.JSON(fiber.Map{
		"month":    month,
		"calendar": calendar,
	})
}

// ListBlogPosts is the staff post table.
func ListBlogPosts(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.ScheduledBlog{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []model.ScheduledBlog
	if err := query.Order("created_at desc").Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch posts",
		})
	}

	return c.JSON(posts)
}

type BlogUpdateInput struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	CoverImageURL   string   `json:"cover_image_url"`
}

// UpdateBlogPost edits a draft or scheduled post and re-scores it.
func UpdateBlogPost(c *fiber.Ctx) error {
	id := c.Params("id")

	var post model.ScheduledBlog
	if err := database.GetDB().First(&post, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if post.Status == model.BlogStatusPublished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Published posts cannot be edited",
		})
	}

	input := new(BlogUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.MetaDescription != "" {
		post.MetaDescription = input.MetaDescription
	}
	if input.CoverImageURL != "" {
		post.CoverImageURL = input.CoverImageURL
	}
	if len(input.Keywords) > 0 {
		keywordsJSON, err := json.Marshal(input.Keywords)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode keywords",
			})
		}
		post.Keywords = datatypes.JSON(keywordsJSON)
	}

	report := scorePost(&post)
	post.SEOScore = report.Score

	if err := database.GetDB().Save(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update post",
		})
	}

	return c.JSON(fiber.Map{
		"post":       post,
		"seo_report": report,
	})
}

func DeleteBlogPost(c *fiber.Ctx) error {
	id := c.Params("id")

	var post model.ScheduledBlog
	if err := database.GetDB().First(&post, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	if err := database.GetDB().Delete(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete post",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListPublishedPosts is the public blog index.
func ListPublishedPosts(c *fiber.Ctx) error {
	var posts []model.ScheduledBlog
	err := database.GetDB().
		Where("status = ?", model.BlogStatusPublished).
		Order("published_at desc").
		Find(&posts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch posts",
		})
	}

	return c.JSON(posts)
}

func GetPublishedPostBySlug(c *fiber.Ctx) error {
	postSlug := c.Params("slug")

	var post model.ScheduledBlog
	err := database.GetDB().
		Where("slug = ? AND status = ?", postSlug, model.BlogStatusPublished).
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch post",
		})
	}

	return c.JSON(post)
}

type InternalLinkInput struct {
	Keyword   string `json:"keyword" validate:"required"`
	TargetURL string `json:"target_url" validate:"required"`
}

func CreateInternalLink(c *fiber.Ctx) error {
	input := new(InternalLinkInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Keyword == "" || input.TargetURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Keyword and target URL are required",
		})
	}

	link := model.InternalLink{
		Keyword:   strings.ToLower(strings.TrimSpace(input.Keyword)),
		TargetURL: input.TargetURL,
	}

	if err := database.GetDB().Create(&link).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A link for that keyword already exists",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(link)
}

func ListInternalLinks(c *fiber.Ctx) error {
	var links []model.InternalLink
	if err := database.GetDB().Order("keyword asc").Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch links",
		})
	}
	return c.JSON(links)
}

func DeleteInternalLink(c *fiber.Ctx) error {
	id := c.Params("id")

	var link model.InternalLink
	if err := database.GetDB().First(&link, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Link not found",
		})
	}

	if err := database.GetDB().Delete(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete link",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// scorePost runs the SEO heuristics over a post's current fields.
func scorePost(post *model.ScheduledBlog) seo.Report {
	var keywords []string
	if len(post.Keywords) > 0 {
		json.Unmarshal(post.Keywords, &keywords)
	}

	var linkCount int64
	database.GetDB().Model(&model.InternalLink{}).Count(&linkCount)

	linkable := 0
	if linkCount > 0 {
		var links []model.InternalLink
		database.GetDB().Find(&links)
		lower := strings.ToLower(post.Content)
		for _, l := range links {
			if strings.Contains(lower, strings.ToLower(l.Keyword)) {
				linkable++
			}
		}
	}

	return seo.Evaluate(seo.Draft{
		Title:           post.Title,
		MetaDescription: post.MetaDescription,
		Content:         post.Content,
		Keywords:        keywords,
		InternalLinks:   linkable,
		HasCoverImage:   post.CoverImageURL != "",
	})
}
