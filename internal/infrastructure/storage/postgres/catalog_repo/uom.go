package catalog_repo

import (
	"stockroom/internal/domain/catalogs/uom"
	"stockroom/internal/infrastructure/storage/postgres"
)

const uomTable = "cat_uom"

// UOMRepo implements uom.Repository.
type UOMRepo struct {
	*BaseCatalogRepo[*uom.UOM]
}

// NewUOMRepo creates a new unit of measure repository.
func NewUOMRepo(txm *postgres.TxManager) *UOMRepo {
	return &UOMRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			uomTable,
			postgres.ExtractDBColumns[uom.UOM](),
			func() *uom.UOM { return &uom.UOM{} },
		),
	}
}
