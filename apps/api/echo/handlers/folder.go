package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/folder"
)

type folderApi struct {
	service *folder.Service
}

func RegisterFolderAPI(g *echo.Group, svc *folder.Service) {
	api := folderApi{service: svc}

	fg := g.Group("/folders")
	fg.POST("", api.folderCreate)
	fg.GET("", api.folderQuery)
	fg.GET("/tree", api.folderTree)
	fg.POST("/move-document", api.folderMoveDocument)

	// detail endpoints
	ig := fg.Group("/:id")
	ig.GET("", api.folderRetrieve)
	ig.PUT("", api.folderUpdate)
	ig.POST("/move", api.folderMove)
	ig.DELETE("", api.folderDestroy)
}

// Requests

type (
	UpdateFolderRequest struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	MoveFolderRequest struct {
		ParentID string `json:"parent_id"` // empty: move to root
	}

	MoveDocumentRequest struct {
		DocumentID string `json:"document_id" validate:"required"`
		FolderID   string `json:"folder_id"` // empty: move to root
	}
)

func (r MoveDocumentRequest) Validate() error { return core.Validate.Struct(r) }

// Handlers

func (api *folderApi) folderCreate(ctx echo.Context) error {
	data := new(folder.NewFolder)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	f, err := api.service.Create(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *folderApi) folderQuery(ctx echo.Context) error {
	folders, err := api.service.QueryAll()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, folders)
}

func (api *folderApi) folderTree(ctx echo.Context) error {
	var q folder.ListQuery
	if err := ctx.Bind(&q); err != nil {
		return err
	}
	listing, err := api.service.List(q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listing)
}

func (api *folderApi) folderRetrieve(ctx echo.Context) error {
	f, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *folderApi) folderUpdate(ctx echo.Context) error {
	data := new(UpdateFolderRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	var f folder.Folder
	var err error
	if data.Name != "" {
		if f, err = api.service.Rename(ctx.Param("id"), data.Name); err != nil {
			return err
		}
	}
	if data.Color != "" {
		if f, err = api.service.SetColor(ctx.Param("id"), data.Color); err != nil {
			return err
		}
	}
	if data.Name == "" && data.Color == "" {
		if f, err = api.service.GetByID(ctx.Param("id")); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *folderApi) folderMove(ctx echo.Context) error {
	data := new(MoveFolderRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	f, err := api.service.Move(ctx.Param("id"), data.ParentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *folderApi) folderDestroy(ctx echo.Context) error {
	reparent := true
	if raw := ctx.QueryParam("reparent"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid reparent flag")
		}
		reparent = val
	}
	if err := api.service.Delete(ctx.Param("id"), reparent); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *folderApi) folderMoveDocument(ctx echo.Context) error {
	data := new(MoveDocumentRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	doc, err := api.service.MoveDocument(data.DocumentID, data.FolderID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}
