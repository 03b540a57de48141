package export

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/testutils"
)

func setupExportUseCase() (
	*ExportUseCase,
	*services.MockSummariesService,
	*services.MockExportsService,
	*services.MockNotificationsService,
) {
	mockSummariesService := new(services.MockSummariesService)
	mockExportsService := new(services.MockExportsService)
	mockNotificationsService := new(services.MockNotificationsService)
	useCase := NewExportUseCase(mockSummariesService, mockExportsService, mockNotificationsService)
	return useCase, mockSummariesService, mockExportsService, mockNotificationsService
}

func TestExport(t *testing.T) {
	testUser := testutils.BuildTestUser()

	t.Run("Excel_Success", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockExportsService, mockNotificationsService := setupExportUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockExportsService.On("RecordExport", mock.Anything, mock.AnythingOfType("*models.Export")).
			Return(&models.Export{}, nil)
		mockNotificationsService.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).
			Return(&models.Notification{}, nil)

		// Execute
		artifact, err := useCase.Export(context.Background(), summary.ID, testUser.ID, models.ExportTypeExcel)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("summary-%s.xlsx", summary.ID), artifact.FileName)
		assert.Equal(t, xlsxContentType, artifact.ContentType)
		assert.NotEmpty(t, artifact.Data)
		// xlsx files are zip archives
		assert.Equal(t, []byte{'P', 'K'}, artifact.Data[:2])

		recordedExport := mockExportsService.Calls[0].Arguments.Get(1).(*models.Export)
		assert.Equal(t, models.ExportStatusCompleted, recordedExport.ExportStatus)
		assert.Equal(t, models.ExportTypeExcel, recordedExport.ExportType)
		mockNotificationsService.AssertExpectations(t)
	})

	t.Run("Notion_Success", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockExportsService, mockNotificationsService := setupExportUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)
		summary.Content = "# Standup Recap\n* Shipped the importer\n• Fixed the flaky test"

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockExportsService.On("RecordExport", mock.Anything, mock.AnythingOfType("*models.Export")).
			Return(&models.Export{}, nil)
		mockNotificationsService.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).
			Return(&models.Notification{}, nil)

		// Execute
		artifact, err := useCase.Export(context.Background(), summary.ID, testUser.ID, models.ExportTypeNotion)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "text/markdown", artifact.ContentType)

		doc := string(artifact.Data)
		assert.True(t, strings.HasPrefix(doc, "# "+summary.Title))
		// Content headings are demoted below the document title
		assert.Contains(t, doc, "## Standup Recap")
		assert.NotContains(t, doc, "\n# Standup Recap")
		// Bullet variants are normalized
		assert.Contains(t, doc, "- Shipped the importer")
		assert.Contains(t, doc, "- Fixed the flaky test")
		assert.Contains(t, doc, "**Source:** slack")
	})

	t.Run("PDF_Success", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockExportsService, mockNotificationsService := setupExportUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)
		mockExportsService.On("RecordExport", mock.Anything, mock.AnythingOfType("*models.Export")).
			Return(&models.Export{}, nil)
		mockNotificationsService.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).
			Return(&models.Notification{}, nil)

		// Execute
		artifact, err := useCase.Export(context.Background(), summary.ID, testUser.ID, models.ExportTypePDF)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", artifact.ContentType)
		assert.True(t, strings.HasPrefix(string(artifact.Data), "%PDF"))
	})

	t.Run("SummaryNotFound", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockExportsService, _ := setupExportUseCase()

		mockSummariesService.On("GetSummaryByID", mock.Anything, mock.Anything, testUser.ID).
			Return(mo.None[*models.Summary](), nil)

		// Execute
		artifact, err := useCase.Export(context.Background(), "sum_01J5KCKQW0RTSVRHEXAMPLE00",
			testUser.ID, models.ExportTypePDF)

		// Assert
		require.Error(t, err)
		assert.Nil(t, artifact)
		mockExportsService.AssertNotCalled(t, "RecordExport")
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, _, _ := setupExportUseCase()

		// Execute
		artifact, err := useCase.Export(context.Background(), "sum_01J5KCKQW0RTSVRHEXAMPLE00",
			testUser.ID, "docx")

		// Assert
		require.Error(t, err)
		assert.Nil(t, artifact)
		mockSummariesService.AssertNotCalled(t, "GetSummaryByID")
	})

	t.Run("RecordFailure_DoesNotMaskRenderError", func(t *testing.T) {
		// Setup
		useCase, mockSummariesService, mockExportsService, _ := setupExportUseCase()
		summary := testutils.BuildTestSummary(testUser.ID)

		mockSummariesService.On("GetSummaryByID", mock.Anything, summary.ID, testUser.ID).
			Return(mo.Some(summary), nil)

		// Force a render failure by reaching into the render path is awkward;
		// instead verify the failure-logging wrap directly
		renderErr := fmt.Errorf("workbook too large")
		mockExportsService.On("RecordExport", mock.Anything, mock.AnythingOfType("*models.Export")).
			Return(nil, fmt.Errorf("connection refused"))

		err := useCase.recordFailure(context.Background(), summary, testUser.ID, models.ExportTypeExcel, renderErr)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workbook too large")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestNotionExportIsDeterministic(t *testing.T) {
	testUser := testutils.BuildTestUser()
	summary := testutils.BuildTestSummary(testUser.ID)

	first, err := renderNotionMarkdown(summary)
	require.NoError(t, err)
	second, err := renderNotionMarkdown(summary)
	require.NoError(t, err)

	// Only the exported-at footer stamp may differ between runs
	stripFooter := func(doc []byte) string {
		s := string(doc)
		if idx := strings.LastIndex(s, "_Exported "); idx >= 0 {
			return s[:idx]
		}
		return s
	}
	assert.Equal(t, stripFooter(first.Data), stripFooter(second.Data))
}
