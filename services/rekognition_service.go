package services

import (
	"context"
	"errors"

	"github.com/Waqasktk456/whichFOOD-EXAM/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

var ErrNoLabels = errors.New("no labels detected")

type LabelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionService struct {
	client        LabelDetector
	maxLabels     int32
	minConfidence float32
}

func NewRekognitionService(client LabelDetector) *RekognitionService {
	return &RekognitionService{client: client, maxLabels: 5, minConfidence: 75}
}

// RecognizeLabels returns the top labels for a data-URI image, most
// confident first.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, dataURI string) ([]string, error) {
	_, data, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		if name := aws.ToString(l.Name); name != "" {
			labels = append(labels, name)
		}
	}
	return labels, nil
}
