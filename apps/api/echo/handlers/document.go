package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/export"
)

type documentApi struct {
	service  *document.Service
	exporter *export.Exporter
}

func RegisterDocumentAPI(g *echo.Group, svc *document.Service, exporter *export.Exporter) {
	api := documentApi{service: svc, exporter: exporter}

	g.GET("/block-types", api.blockTypeList)

	dg := g.Group("/documents")
	dg.POST("", api.documentCreate)
	dg.GET("", api.documentQuery)
	dg.GET("/facets", api.documentTagFacets)

	// detail endpoints
	ig := dg.Group("/:id")
	ig.GET("", api.documentRetrieve)
	ig.PUT("", api.documentUpdate)
	ig.DELETE("", api.documentDestroy)
	ig.POST("/duplicate", api.documentDuplicate)
	ig.GET("/export", api.documentExport)
	ig.POST("/import", api.documentImport)

	// block endpoints
	bg := ig.Group("/blocks")
	bg.POST("", api.blockAdd)
	bg.PUT("/:blockID", api.blockUpdate)
	bg.DELETE("/:blockID", api.blockDestroy)
	bg.POST("/:blockID/move", api.blockMove)
	bg.POST("/:blockID/convert", api.blockConvert)
	bg.POST("/:blockID/duplicate", api.blockDuplicate)
	bg.POST("/:blockID/toggle", api.blockToggle)
}

// Requests

type (
	AddBlockRequest struct {
		Type    document.BlockType `json:"type" validate:"required"`
		AtIndex *int               `json:"at_index"`
	}

	UpdateBlockRequest struct {
		Content  string            `json:"content"`
		Metadata document.Metadata `json:"metadata"`
	}

	MoveBlockRequest struct {
		ToIndex int `json:"to_index"`
	}

	ConvertBlockRequest struct {
		Type document.BlockType `json:"type" validate:"required"`
	}
)

func (r AddBlockRequest) Validate() error     { return core.Validate.Struct(r) }
func (r ConvertBlockRequest) Validate() error { return core.Validate.Struct(r) }

// Handlers

func (api *documentApi) blockTypeList(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, document.AllTypes())
}

func (api *documentApi) documentCreate(ctx echo.Context) error {
	data := new(document.NewDocument)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	doc, err := api.service.Create(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) documentQuery(ctx echo.Context) error {
	var filter document.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	docs, err := api.service.Filter(filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) documentTagFacets(ctx echo.Context) error {
	var filter document.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	facets, err := api.service.TagFacets(filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, facets)
}

func (api *documentApi) documentRetrieve(ctx echo.Context) error {
	doc, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) documentUpdate(ctx echo.Context) error {
	data := new(document.UpdateDocument)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	doc, err := api.service.Update(ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) documentDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *documentApi) documentDuplicate(ctx echo.Context) error {
	doc, err := api.service.Duplicate(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) documentExport(ctx echo.Context) error {
	doc, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	format := export.Format(ctx.QueryParam("format"))
	if format == "" {
		format = export.FormatJSON
	}
	exp, _, err := api.exporter.Export(doc, format)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exp.Filename+`"`)
	return ctx.Blob(http.StatusOK, exp.MimeType, exp.Content)
}

// documentImport parses a JSON export back into a Document and replaces the
// target document's content with it (the JSON round-trip counterpart of
// documentExport).
func (api *documentApi) documentImport(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}
	imported, err := api.exporter.Import(body)
	if err != nil {
		return core.NewValidationError(err)
	}
	doc, err := api.service.Replace(ctx.Param("id"), imported)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) blockAdd(ctx echo.Context) error {
	data := new(AddBlockRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	var err error
	var doc document.Document
	if data.AtIndex != nil {
		doc, _, err = api.service.AddBlock(ctx.Param("id"), data.Type, *data.AtIndex)
	} else {
		doc, _, err = api.service.AddBlock(ctx.Param("id"), data.Type)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) blockUpdate(ctx echo.Context) error {
	data := new(UpdateBlockRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	doc, err := api.service.UpdateBlock(ctx.Param("id"), ctx.Param("blockID"), data.Content, data.Metadata)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) blockDestroy(ctx echo.Context) error {
	doc, err := api.service.DeleteBlock(ctx.Param("id"), ctx.Param("blockID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) blockMove(ctx echo.Context) error {
	data := new(MoveBlockRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	doc, err := api.service.MoveBlock(ctx.Param("id"), ctx.Param("blockID"), data.ToIndex)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) blockConvert(ctx echo.Context) error {
	data := new(ConvertBlockRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	doc, err := api.service.ConvertBlock(ctx.Param("id"), ctx.Param("blockID"), data.Type)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) blockDuplicate(ctx echo.Context) error {
	doc, _, err := api.service.DuplicateBlock(ctx.Param("id"), ctx.Param("blockID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) blockToggle(ctx echo.Context) error {
	doc, err := api.service.ToggleChecked(ctx.Param("id"), ctx.Param("blockID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}
