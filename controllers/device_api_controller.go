package controllers

import (
	"net/http"

	"signage/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// DeviceAPIController serves the kiosk-facing endpoints. Every route here
// sits behind DeviceAuthMiddleware.
type DeviceAPIController struct {
	Surveys *services.SurveyService
	Answers *services.AnswerService
	Hub     *services.DeviceHub
}

func NewDeviceAPIController(surveys *services.SurveyService, answers *services.AnswerService, hub *services.DeviceHub) *DeviceAPIController {
	return &DeviceAPIController{Surveys: surveys, Answers: answers, Hub: hub}
}

// CurrentSurvey returns the survey the kiosk should be showing, with pages,
// questions and options.
func (dac *DeviceAPIController) CurrentSurvey(c *gin.Context) {
	deviceID := c.GetUint("deviceID")

	survey, err := dac.Surveys.PublishedSurveyForDevice(c.Request.Context(), deviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// SubmitAnswer ingests one answer for a page. The optional submission id
// makes retransmissions idempotent; the optional client timestamp (epoch
// seconds) is used as the answer's creation time.
func (dac *DeviceAPIController) SubmitAnswer(c *gin.Context) {
	deviceID := c.GetUint("deviceID")
	pageID, err := pathID(c, "pageId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return
	}

	var body struct {
		Answer          string `json:"answer"`
		SubmissionID    string `json:"submission_id"`
		ClientTimestamp *int64 `json:"client_timestamp"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := dac.Answers.Submit(c.Request.Context(), deviceID, pageID, services.AnswerSubmission{
		Answer:          body.Answer,
		SubmissionID:    body.SubmissionID,
		ClientTimestamp: body.ClientTimestamp,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connect upgrades the kiosk to a websocket so it receives survey-change
// pings without polling.
func (dac *DeviceAPIController) Connect(c *gin.Context) {
	deviceID := c.GetUint("deviceID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &services.DeviceClient{DeviceID: deviceID, Conn: conn}
	dac.Hub.Register(client)

	// Reader loop only detects disconnects; kiosks never send on this socket.
	go func() {
		defer dac.Hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
