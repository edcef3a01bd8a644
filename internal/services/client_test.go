package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
	service "github.com/dmorenoc/retail-pos-platform/internal/services"
)

func clientTestSetup() (*repository.MockClientRepository, service.ClientService) {
	repo := repository.NewMockClientRepository()
	return repo, service.NewClientService(repo)
}

func TestCreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, svc := clientTestSetup()

		repo.On("GetClientByDocument", ctx, models.DocumentTypeDNI, "45678912").
			Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateClient", ctx, mock.AnythingOfType("*models.Client")).Return(nil).Once()

		client, err := svc.CreateClient(ctx, &models.CreateClientRequest{
			Name:      "María Quispe",
			DocType:   models.DocumentTypeDNI,
			DocNumber: " 45678912 ",
		})

		assert.NoError(t, err)
		assert.Equal(t, "45678912", client.DocNumber)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Document", func(t *testing.T) {
		repo, svc := clientTestSetup()

		repo.On("GetClientByDocument", ctx, models.DocumentTypeDNI, "45678912").
			Return(&models.Client{ID: uuid.New()}, nil).Once()

		client, err := svc.CreateClient(ctx, &models.CreateClientRequest{
			Name:      "María Quispe",
			DocType:   models.DocumentTypeDNI,
			DocNumber: "45678912",
		})

		assert.Nil(t, client)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		repo.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, svc := clientTestSetup()

		repo.On("GetClientByDocument", ctx, models.DocumentTypeDNI, "45678912").
			Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateClient", ctx, mock.AnythingOfType("*models.Client")).
			Return(errors.New("insert failed")).Once()

		client, err := svc.CreateClient(ctx, &models.CreateClientRequest{
			Name:      "María Quispe",
			DocType:   models.DocumentTypeDNI,
			DocNumber: "45678912",
		})

		assert.Nil(t, client)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestDocumentValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		docType   models.DocumentType
		docNumber string
		valid     bool
	}{
		{"DNI valid", models.DocumentTypeDNI, "45678912", true},
		{"DNI too short", models.DocumentTypeDNI, "4567891", false},
		{"DNI with letters", models.DocumentTypeDNI, "4567891A", false},
		{"RUC personal", models.DocumentTypeRUC, "10456789123", true},
		{"RUC company", models.DocumentTypeRUC, "20456789123", true},
		{"RUC bad prefix", models.DocumentTypeRUC, "30456789123", false},
		{"RUC too long", models.DocumentTypeRUC, "204567891234", false},
		{"CE nine chars", models.DocumentTypeCE, "X12345678", true},
		{"CE twelve chars", models.DocumentTypeCE, "CE1234567890", true},
		{"CE too short", models.DocumentTypeCE, "X1234567", false},
		{"CE with symbols", models.DocumentTypeCE, "X1234567-90", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, svc := clientTestSetup()

			if tc.valid {
				repo.On("GetClientByDocument", ctx, tc.docType, tc.docNumber).
					Return(nil, sql.ErrNoRows).Once()
				repo.On("CreateClient", ctx, mock.AnythingOfType("*models.Client")).Return(nil).Once()
			}

			_, err := svc.CreateClient(ctx, &models.CreateClientRequest{
				Name:      "Cliente de prueba",
				DocType:   tc.docType,
				DocNumber: tc.docNumber,
			})

			if tc.valid {
				assert.NoError(t, err)
			} else {
				appErr, ok := appErrors.IsAppError(err)
				assert.True(t, ok)
				assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
			}
		})
	}
}

func TestUpdateClient(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()

	existing := func() *models.Client {
		return &models.Client{
			ID:        clientID,
			Name:      "María Quispe",
			DocType:   models.DocumentTypeDNI,
			DocNumber: "45678912",
		}
	}

	t.Run("Success - Partial Update Keeps Other Fields", func(t *testing.T) {
		repo, svc := clientTestSetup()

		repo.On("GetClientByID", ctx, clientID).Return(existing(), nil).Once()
		repo.On("UpdateClient", ctx, mock.AnythingOfType("*models.Client")).Return(nil).Once()

		phone := "987654321"
		client, err := svc.UpdateClient(ctx, clientID, &models.UpdateClientRequest{Phone: &phone})

		assert.NoError(t, err)
		assert.Equal(t, "987654321", client.Phone)
		assert.Equal(t, "María Quispe", client.Name)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Document Change Rechecked", func(t *testing.T) {
		repo, svc := clientTestSetup()

		repo.On("GetClientByID", ctx, clientID).Return(existing(), nil).Once()

		bad := "123"
		client, err := svc.UpdateClient(ctx, clientID, &models.UpdateClientRequest{DocNumber: &bad})

		assert.Nil(t, client)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		repo.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything)
	})
}
