package controller

import (
	"sitebuilder-be/internal/dto"
	"sitebuilder-be/internal/pkg/serverutils"
	"sitebuilder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBuilderController interface {
	RegisterRoutes(r fiber.Router)
}

type builderController struct {
	service service.IBuilderService
}

func NewBuilderController(service service.IBuilderService) IBuilderController {
	return &builderController{service: service}
}

func (c *builderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/builder/v1")
	h.Post("/sessions", c.CreateSession)
	h.Get("/:sessionId/components", c.GetState)
	h.Post("/:sessionId/components", c.AddComponent)
	h.Patch("/:sessionId/components/:id", c.UpdateComponent)
	h.Delete("/:sessionId/components/:id", c.DeleteComponent)
	h.Post("/:sessionId/components/:id/duplicate", c.DuplicateComponent)
	h.Put("/:sessionId/components/:id/move", c.MoveComponent)
	h.Post("/:sessionId/components/:id/copy", c.CopyComponent)
	h.Post("/:sessionId/paste", c.PasteComponent)
	h.Put("/:sessionId/selection", c.SetSelection)
	h.Post("/:sessionId/undo", c.Undo)
	h.Post("/:sessionId/redo", c.Redo)
	h.Post("/:sessionId/load", c.LoadDocument)
	h.Post("/:sessionId/clear", c.ClearDocument)
}

func (c *builderController) CreateSession(ctx *fiber.Ctx) error {
	res := c.service.CreateSession()
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *builderController) GetState(ctx *fiber.Ctx) error {
	res, err := c.service.GetState(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session state", res))
}

func (c *builderController) AddComponent(ctx *fiber.Ctx) error {
	var req dto.AddComponentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddComponent(ctx.Params("sessionId"), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Component added", res))
}

func (c *builderController) UpdateComponent(ctx *fiber.Ctx) error {
	var req dto.UpdateComponentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.service.UpdateComponent(ctx.Params("sessionId"), ctx.Params("id"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component updated", nil))
}

func (c *builderController) DeleteComponent(ctx *fiber.Ctx) error {
	if err := c.service.DeleteComponent(ctx.Params("sessionId"), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component deleted", nil))
}

func (c *builderController) DuplicateComponent(ctx *fiber.Ctx) error {
	res, err := c.service.DuplicateComponent(ctx.Params("sessionId"), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Component duplicated", res))
}

func (c *builderController) MoveComponent(ctx *fiber.Ctx) error {
	var req dto.MoveComponentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.service.MoveComponent(ctx.Params("sessionId"), ctx.Params("id"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component moved", nil))
}

func (c *builderController) CopyComponent(ctx *fiber.Ctx) error {
	if err := c.service.CopyComponent(ctx.Params("sessionId"), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Component copied", nil))
}

func (c *builderController) PasteComponent(ctx *fiber.Ctx) error {
	var req dto.PasteComponentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.PasteComponent(ctx.Params("sessionId"), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Component pasted", res))
}

func (c *builderController) SetSelection(ctx *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.service.SetSelection(ctx.Params("sessionId"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Selection updated", nil))
}

func (c *builderController) Undo(ctx *fiber.Ctx) error {
	res, err := c.service.Undo(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Undo applied", res))
}

func (c *builderController) Redo(ctx *fiber.Ctx) error {
	res, err := c.service.Redo(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Redo applied", res))
}

func (c *builderController) LoadDocument(ctx *fiber.Ctx) error {
	var req dto.LoadDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := c.service.LoadDocument(ctx.Params("sessionId"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document loaded", nil))
}

func (c *builderController) ClearDocument(ctx *fiber.Ctx) error {
	if err := c.service.ClearDocument(ctx.Params("sessionId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document cleared", nil))
}
