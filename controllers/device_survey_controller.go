package controllers

import (
	"net/http"
	"time"

	"signage/models"
	"signage/services"

	"github.com/gin-gonic/gin"
)

type DeviceSurveyController struct {
	Service *services.DeviceSurveyService
}

func NewDeviceSurveyController(svc *services.DeviceSurveyService) *DeviceSurveyController {
	return &DeviceSurveyController{Service: svc}
}

type deviceSurveyRequest struct {
	SurveyID         uint       `json:"survey_id" binding:"required"`
	Status           string     `json:"status" binding:"required"`
	PublishStartTime *time.Time `json:"publish_start_time"`
	PublishEndTime   *time.Time `json:"publish_end_time"`
}

func (r deviceSurveyRequest) input() services.DeviceSurveyInput {
	return services.DeviceSurveyInput{
		SurveyID:         r.SurveyID,
		Status:           models.DeviceSurveyStatus(r.Status),
		PublishStartTime: r.PublishStartTime,
		PublishEndTime:   r.PublishEndTime,
	}
}

func (dsc *DeviceSurveyController) Create(c *gin.Context) {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var body deviceSurveyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, err := dsc.Service.Create(deviceID, body.input(), c.GetString("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ds)
}

func (dsc *DeviceSurveyController) List(c *gin.Context) {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	list, err := dsc.Service.List(deviceID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (dsc *DeviceSurveyController) Find(c *gin.Context) {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ds, err := dsc.Service.Find(deviceID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (dsc *DeviceSurveyController) Update(c *gin.Context) {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body deviceSurveyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, err := dsc.Service.Update(deviceID, id, body.input(), c.GetString("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (dsc *DeviceSurveyController) Delete(c *gin.Context) {
	deviceID, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := dsc.Service.Delete(deviceID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
