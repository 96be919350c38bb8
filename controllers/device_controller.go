package controllers

import (
	"net/http"
	"strconv"

	"signage/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Devices *services.DeviceService
	SNS     *services.SNSNotifier
}

func NewDeviceController(devices *services.DeviceService, sns *services.SNSNotifier) *DeviceController {
	return &DeviceController{Devices: devices, SNS: sns}
}

// RequestEnrollment is the public intake for new kiosks.
func (dc *DeviceController) RequestEnrollment(c *gin.Context) {
	var body struct {
		SerialNumber string `json:"serial_number" binding:"required"`
		Name         string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pending, err := dc.Devices.RequestEnrollment(body.SerialNumber, body.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pending)
}

// Approve clears a device request; the kiosk then claims it with its
// enrollment token.
func (dc *DeviceController) Approve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	pending, err := dc.Devices.Approve(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Claim is called by the kiosk after approval. It creates the device and
// returns its private key; this is the only time the key ever leaves the
// server.
func (dc *DeviceController) Claim(c *gin.Context) {
	var body struct {
		SerialNumber    string `json:"serial_number" binding:"required"`
		EnrollmentToken string `json:"enrollment_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, privateKey, err := dc.Devices.Claim(body.SerialNumber, body.EnrollmentToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"device":      device,
		"private_key": privateKey,
	})
}

func (dc *DeviceController) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := dc.Devices.Reject(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected"})
}

func (dc *DeviceController) List(c *gin.Context) {
	devices, err := dc.Devices.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (dc *DeviceController) Find(c *gin.Context) {
	id, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}
	device, err := dc.Devices.Find(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (dc *DeviceController) Delete(c *gin.Context) {
	id, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}
	if err := dc.Devices.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// RegisterEndpoint attaches an SNS push endpoint to a device.
func (dc *DeviceController) RegisterEndpoint(c *gin.Context) {
	if dc.SNS == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications not configured"})
		return
	}
	id, err := pathID(c, "deviceId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var body struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := dc.SNS.RegisterEndpoint(id, body.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(id), err
}
