package catalog

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// PDFGenerator puerto de generación de reportes PDF.
type PDFGenerator interface {
	// GenerateRequestPDF representación imprimible de una solicitud, con el
	// nombre de cada producto resuelto.
	GenerateRequestPDF(ctx context.Context, req *entity.Request, products map[string]*entity.Product) ([]byte, error)
	// GenerateInventoryReport reporte de existencias con estado de stock.
	GenerateInventoryReport(ctx context.Context, items []*dto.InventoryItemResponse) ([]byte, error)
}

// ReportUseCase arma los datos y delega la composición al generador PDF.
type ReportUseCase struct {
	reqRepo     repository.RequestRepository
	productRepo repository.ProductRepository
	inventory   *InventoryUseCase
	pdfGen      PDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	reqRepo repository.RequestRepository,
	productRepo repository.ProductRepository,
	inventory *InventoryUseCase,
	pdfGen PDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		reqRepo:     reqRepo,
		productRepo: productRepo,
		inventory:   inventory,
		pdfGen:      pdfGen,
	}
}

// RequestPDF genera el PDF de una solicitud.
func (uc *ReportUseCase) RequestPDF(ctx context.Context, requestID string) ([]byte, error) {
	req, err := uc.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	products := make(map[string]*entity.Product, len(req.Lines))
	for _, l := range req.Lines {
		if _, ok := products[l.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[l.ProductID] = p
		}
	}
	return uc.pdfGen.GenerateRequestPDF(ctx, req, products)
}

// InventoryPDF genera el reporte de existencias completo.
func (uc *ReportUseCase) InventoryPDF(ctx context.Context) ([]byte, error) {
	items, err := uc.inventory.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateInventoryReport(ctx, items)
}
