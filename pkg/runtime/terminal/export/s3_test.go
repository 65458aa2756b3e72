package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/api"
)

type mockPutObject struct {
	mock.Mock
}

func (m *mockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newTestExporter(t *testing.T, client PutObjectAPI) *S3Exporter {
	t.Helper()
	e, err := NewS3Exporter(client, "lab-reports", "dashboards")
	require.NoError(t, err)
	e.now = func() time.Time { return time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC) }
	e.newID = func() string { return "0b5c" }
	return e
}

func TestS3Exporter_ExportDashboard(t *testing.T) {
	dashboard := api.Dashboard{
		TotalTests: 1,
		Tests: []api.TestCost{{
			ID: 1, Name: "Fasting blood sugar", TotalCost: 20730,
			Components: []api.CostComponent{},
		}},
	}

	t.Run("uploads json", func(t *testing.T) {
		client := new(mockPutObject)
		var uploaded []byte
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.Bucket) == "lab-reports" &&
				aws.ToString(in.Key) == "dashboards/2025/03/09/dashboard-0b5c.json" &&
				aws.ToString(in.ContentType) == "application/json" &&
				in.Metadata["tests"] == "1"
		})).Run(func(args mock.Arguments) {
			in := args.Get(1).(*s3.PutObjectInput)
			uploaded, _ = io.ReadAll(in.Body)
		}).Return(&s3.PutObjectOutput{}, nil)

		key, err := newTestExporter(t, client).ExportDashboard(context.Background(), dashboard)

		require.NoError(t, err)
		assert.Equal(t, "dashboards/2025/03/09/dashboard-0b5c.json", key)

		var got api.Dashboard
		require.NoError(t, json.Unmarshal(uploaded, &got))
		assert.Equal(t, dashboard, got)
		client.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		client := new(mockPutObject)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

		key, err := newTestExporter(t, client).ExportDashboard(context.Background(), dashboard)

		assert.Empty(t, key)
		assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
		assert.ErrorContains(t, err, "s3://lab-reports/dashboards/2025/03/09/dashboard-0b5c.json")
	})
}

func TestNewS3Exporter_Validation(t *testing.T) {
	_, err := NewS3Exporter(new(mockPutObject), "", "dashboards")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = NewS3Exporter(nil, "lab-reports", "")
	assert.EqualError(t, err, "s3 client is nil")
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(context.Background(), S3Config{
		Region:          "eu-west-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
}
