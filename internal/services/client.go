package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dmorenoc/retail-pos-platform/internal/errors"
	"github.com/dmorenoc/retail-pos-platform/internal/models"
	repository "github.com/dmorenoc/retail-pos-platform/internal/repositories"
)

type ClientService interface {
	CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetClientByDocument(ctx context.Context, docType models.DocumentType, docNumber string) (*models.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, req *models.UpdateClientRequest) (*models.Client, error)
	ListClients(ctx context.Context, page, pageSize int) ([]*models.Client, int, error)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

var (
	dniPattern = regexp.MustCompile(`^\d{8}$`)
	rucPattern = regexp.MustCompile(`^(10|15|17|20)\d{9}$`)
	cePattern  = regexp.MustCompile(`^[0-9A-Za-z]{9,12}$`)
)

// validateDocument enforces the Peruvian identity-document formats: DNI is
// 8 digits, RUC is 11 digits with a known prefix, CE is 9 to 12
// alphanumeric characters.
func validateDocument(docType models.DocumentType, docNumber string) error {

	switch docType {
	case models.DocumentTypeDNI:
		if !dniPattern.MatchString(docNumber) {
			return errors.ValidationError("DNI must be exactly 8 digits")
		}
	case models.DocumentTypeRUC:
		if !rucPattern.MatchString(docNumber) {
			return errors.ValidationError("RUC must be 11 digits starting with 10, 15, 17 or 20")
		}
	case models.DocumentTypeCE:
		if !cePattern.MatchString(docNumber) {
			return errors.ValidationError("CE must be 9 to 12 alphanumeric characters")
		}
	default:
		return errors.ValidationError("Unknown document type")
	}

	return nil
}

func (s *clientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {

	docNumber := strings.TrimSpace(req.DocNumber)

	if err := validateDocument(req.DocType, docNumber); err != nil {
		return nil, err
	}

	existing, _ := s.repo.GetClientByDocument(ctx, req.DocType, docNumber)
	if existing != nil {
		return nil, errors.DuplicateEntryError("A client with this document already exists")
	}

	client := &models.Client{
		Name:      req.Name,
		DocType:   req.DocType,
		DocNumber: docNumber,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, errors.DatabaseError("Failed to create client").WithError(err)
	}

	return client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {

	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Client not found").WithError(err)
	}

	return client, nil
}

func (s *clientService) GetClientByDocument(ctx context.Context, docType models.DocumentType, docNumber string) (*models.Client, error) {

	if err := validateDocument(docType, docNumber); err != nil {
		return nil, err
	}

	client, err := s.repo.GetClientByDocument(ctx, docType, docNumber)
	if err != nil {
		return nil, errors.NotFoundError("Client not found").WithError(err)
	}

	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id uuid.UUID, req *models.UpdateClientRequest) (*models.Client, error) {

	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Client not found").WithError(err)
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.DocType != nil {
		client.DocType = *req.DocType
	}
	if req.DocNumber != nil {
		client.DocNumber = strings.TrimSpace(*req.DocNumber)
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Address != nil {
		client.Address = *req.Address
	}

	if req.DocType != nil || req.DocNumber != nil {
		if err := validateDocument(client.DocType, client.DocNumber); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return nil, errors.DatabaseError("Failed to update client").WithError(err)
	}

	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, page, pageSize int) ([]*models.Client, int, error) {

	clients, total, err := s.repo.ListClients(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch clients").WithError(err)
	}

	return clients, total, nil
}
