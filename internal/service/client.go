package service

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"
)

type clientService struct {
	clientRepo repository.ClientRepository
	lookup     CompanyLookup
}

// NewClientService builds the client registry. lookup may be nil, in which
// case CNPJ documents are stored without registry data.
func NewClientService(clientRepo repository.ClientRepository, lookup CompanyLookup) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		lookup:     lookup,
	}
}

func (s *clientService) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	logger.EnterMethod("ClientService.CreateClient", "document", input.Document)

	draft := &domain.Client{Name: input.Name, Document: input.Document, Email: input.Email, Phone: input.Phone}
	if s.lookup != nil && domain.IsCNPJ(input.Document) {
		info, err := s.lookup.Lookup(ctx, input.Document)
		if err != nil {
			logger.WarnContext(ctx, "CNPJ lookup failed, continuing without registry data", "document", input.Document, "error", err)
		} else {
			draft.Fill(info)
		}
	}

	client, err := domain.NewClient(draft.Name, draft.Document, draft.Email, draft.Phone)
	if err != nil {
		logger.ExitMethodWithError("ClientService.CreateClient", err)
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		logger.ExitMethodWithError("ClientService.CreateClient", err)
		return nil, err
	}

	logger.ExitMethod("ClientService.CreateClient", "client_id", client.ID)
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) LookupCNPJ(ctx context.Context, cnpj string) (*domain.CompanyInfo, error) {
	if !domain.IsCNPJ(cnpj) {
		return nil, domain.InvalidInput("%q is not a CNPJ", cnpj)
	}
	if s.lookup == nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "company registry lookup is not configured")
	}
	return s.lookup.Lookup(ctx, cnpj)
}
