package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/catalogs/uom"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// UOMHandler handles HTTP requests for the unit of measure catalog.
type UOMHandler = CatalogHandler[*uom.UOM, dto.CreateUOMRequest, dto.UpdateUOMRequest]

// NewUOMHandler creates a new unit of measure handler.
func NewUOMHandler(base *BaseHandler, service *uom.Service) *UOMHandler {
	cfg := CatalogHandlerConfig[*uom.UOM, dto.CreateUOMRequest, dto.UpdateUOMRequest]{
		Service:    service.CatalogService,
		EntityName: "uom",
		MapCreateDTO: func(c *gin.Context, req dto.CreateUOMRequest) *uom.UOM {
			return req.ToEntity(base.CompanyID(c))
		},
		MapUpdateDTO: func(req dto.UpdateUOMRequest, existing *uom.UOM) *uom.UOM {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(u *uom.UOM) any {
			return u
		},
	}

	return NewCatalogHandler(base, cfg)
}
