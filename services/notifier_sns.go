package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"signage/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// SNSNotifier reaches kiosks that are not holding a websocket open, via an
// SNS platform endpoint registered per device.
type SNSNotifier struct {
	db          *gorm.DB
	sns         *awssns.Client
	platformArn string
}

func NewSNSNotifier(db *gorm.DB) (*SNSNotifier, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSNotifier{
		db:          db,
		sns:         awssns.NewFromConfig(cfg),
		platformArn: os.Getenv("SNS_PLATFORM_ARN"),
	}, nil
}

// RegisterEndpoint creates (or refreshes) the SNS endpoint for a device and
// stores its ARN on the device row.
func (n *SNSNotifier) RegisterEndpoint(deviceID uint, token string) (*models.Device, error) {
	if n.platformArn == "" {
		return nil, fmt.Errorf("SNS_PLATFORM_ARN not set")
	}

	var device models.Device
	if err := n.db.First(&device, deviceID).Error; err != nil {
		return nil, notFoundf("device %d", deviceID)
	}

	out, err := n.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(n.platformArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	device.EndpointARN = aws.ToString(out.EndpointArn)
	if err := n.db.Save(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// SurveyChanged hands delivery to a goroutine so callers in the request
// path never wait on SNS.
func (n *SNSNotifier) SurveyChanged(deviceID uint) {
	go n.publishChange(deviceID)
}

func (n *SNSNotifier) publishChange(deviceID uint) {
	var device models.Device
	if err := n.db.First(&device, deviceID).Error; err != nil {
		return
	}
	if device.EndpointARN == "" {
		return
	}

	raw, _ := json.Marshal(map[string]any{
		"default": "survey.changed",
		"kind":    "survey.changed",
	})
	_, _ = n.sns.Publish(context.TODO(), &awssns.PublishInput{
		Message:   aws.String(string(raw)),
		TargetArn: aws.String(device.EndpointARN),
	})
}
