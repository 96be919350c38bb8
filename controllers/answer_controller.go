package controllers

import (
	"net/http"

	"signage/services"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	Answers *services.AnswerService
}

func NewAnswerController(answers *services.AnswerService) *AnswerController {
	return &AnswerController{Answers: answers}
}

func (ac *AnswerController) ListByPage(c *gin.Context) {
	pageID, err := pathID(c, "pageId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return
	}

	answers, err := ac.Answers.ListByPage(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (ac *AnswerController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := ac.Answers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
