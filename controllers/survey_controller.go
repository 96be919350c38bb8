package controllers

import (
	"net/http"

	"signage/models"
	"signage/services"

	"github.com/gin-gonic/gin"
)

type SurveyController struct {
	Surveys *services.SurveyService
}

func NewSurveyController(surveys *services.SurveyService) *SurveyController {
	return &SurveyController{Surveys: surveys}
}

func (sc *SurveyController) Create(c *gin.Context) {
	var body struct {
		Title          string `json:"title" binding:"required"`
		TimeoutSeconds int    `json:"timeout_seconds"`
		Pages          []struct {
			Title    string `json:"title"`
			Question *struct {
				Type    string   `json:"type" binding:"required"`
				Text    string   `json:"text"`
				Options []string `json:"options"`
			} `json:"question"`
		} `json:"pages"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	survey := models.Survey{
		Title:          body.Title,
		TimeoutSeconds: body.TimeoutSeconds,
	}
	for i, p := range body.Pages {
		page := models.Page{Position: i, Title: p.Title}
		if p.Question != nil {
			q := models.PageQuestion{
				Type: models.QuestionType(p.Question.Type),
				Text: p.Question.Text,
			}
			for j, label := range p.Question.Options {
				q.Options = append(q.Options, models.QuestionOption{Position: j, Label: label})
			}
			page.Question = &q
		}
		survey.Pages = append(survey.Pages, page)
	}

	if err := sc.Surveys.Create(&survey, c.GetString("email")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (sc *SurveyController) Approve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	survey, err := sc.Surveys.Approve(id, c.GetString("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func (sc *SurveyController) Find(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	survey, err := sc.Surveys.Find(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// PageStats reports answer counts for one page of a survey.
func (sc *SurveyController) PageStats(c *gin.Context) {
	pageID, err := pathID(c, "pageId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return
	}

	total, counts, err := sc.Surveys.PageStats(pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_answers": total,
		"options":       counts,
	})
}
