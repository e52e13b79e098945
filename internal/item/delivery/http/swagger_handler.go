package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateItem godoc
// @Summary Create a new item
// @Description Register an inventory item; initial stock is recorded as a STOCK_IN transaction (Manager only)
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,sku=string,category_id=int,initial_stock=int,minimum_stock=int,cost_price=number,selling_price=number,location=string,supplier=string,expiry_date=string,image_url=string} true "Item data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/items [post]
func (h *ItemHandler) CreateItemDoc() {}

// ListItems godoc
// @Summary List items
// @Description Get items with optional category, name and pagination filters
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param category_id query int false "Category filter"
// @Param name query string false "Name substring filter"
// @Param include_inactive query bool false "Include deactivated items"
// @Success 200 {object} object{success=bool,data=object{items=array,total=int,limit=int,offset=int}}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/items [get]
func (h *ItemHandler) ListItemsDoc() {}

// ListLowStock godoc
// @Summary List low stock items
// @Description Get active items at or below their minimum stock level
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/items/low-stock [get]
func (h *ItemHandler) ListLowStockDoc() {}

// ListExpiring godoc
// @Summary List expiring items
// @Description Get active items expiring within the given number of days (default 30)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param days query int false "Lookahead window in days"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/items/expiring [get]
func (h *ItemHandler) ListExpiringDoc() {}

// GetItem godoc
// @Summary Get item by ID
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [get]
func (h *ItemHandler) GetItemDoc() {}

// GetItemBySKU godoc
// @Summary Get item by SKU
// @Description SKU lookup is case-insensitive
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param sku path string true "Item SKU"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/sku/{sku} [get]
func (h *ItemHandler) GetItemBySKUDoc() {}

// UpdateItem godoc
// @Summary Update item metadata
// @Description Update item fields; stock is immutable here and only moves through transactions (Manager only)
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{name=string,description=string,sku=string,category_id=int,minimum_stock=int,cost_price=number,selling_price=number,location=string,supplier=string,expiry_date=string,image_url=string} true "Item data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [put]
func (h *ItemHandler) UpdateItemDoc() {}

// DeactivateItem godoc
// @Summary Deactivate an item
// @Description Soft-disable an item; its transaction history remains queryable (Admin only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [delete]
func (h *ItemHandler) DeactivateItemDoc() {}

// VerifyStock godoc
// @Summary Verify item stock against the ledger
// @Description Replay the item's transactions and compare the sum with the materialized stock (Manager only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object{item_id=int,sku=string,current_stock=int,ledger_sum=int,consistent=bool}}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/items/{id}/verify [get]
func (h *ItemHandler) VerifyStockDoc() {}
