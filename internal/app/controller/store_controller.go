package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sellora/sellora-backend/internal/app/service"
	apperrors "github.com/sellora/sellora-backend/internal/errors"
	"github.com/sellora/sellora-backend/internal/middleware"
	"github.com/sellora/sellora-backend/internal/storage"
)

// maxLogoSize caps the uploaded logo at 5MB.
const maxLogoSize = 5 << 20

// allowedLogoTypes are the sniffed content types accepted for the logo.
var allowedLogoTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
}

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

// Create handles a store application.
// POST /api/store/create (multipart form)
func (ctrl *StoreController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		log.Warn("Store create rejected: user not authenticated")
		apperrors.Unauthorized(c, "User not authenticated")
		return
	}

	input := service.RegisterStoreInput{
		Name:        c.PostForm("name"),
		Username:    c.PostForm("username"),
		Description: c.PostForm("description"),
		Email:       c.PostForm("email"),
		Contact:     c.PostForm("contact"),
		Address:     c.PostForm("address"),
	}

	missing := missingFields(map[string]string{
		"name":        input.Name,
		"username":    input.Username,
		"description": input.Description,
		"email":       input.Email,
		"contact":     input.Contact,
		"address":     input.Address,
	})

	fileHeader, err := c.FormFile("image")
	if err != nil {
		missing = append(missing, "image")
	}

	if len(missing) > 0 {
		log.Warn("Store create rejected: missing fields", map[string]interface{}{
			"user_id": userID,
			"missing": missing,
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired,
			"missing store info: "+strings.Join(missing, ", "))
		return
	}

	if err := storage.ValidateFileSize(fileHeader.Size, maxLogoSize); err != nil {
		log.Warn("Store create rejected: logo too large", map[string]interface{}{
			"user_id": userID,
			"size":    fileHeader.Size,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "logo image exceeds the 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded logo", err)
		apperrors.BadRequest(c, apperrors.UploadFailed, "could not read uploaded image")
		return
	}
	defer file.Close()

	input.Image, err = io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded logo", err)
		apperrors.BadRequest(c, apperrors.UploadFailed, "could not read uploaded image")
		return
	}
	input.ImageName = fileHeader.Filename

	// Sniff the actual bytes; the client-sent content type is not trusted.
	contentType := http.DetectContentType(input.Image)
	if err := storage.ValidateContentType(contentType, allowedLogoTypes); err != nil {
		log.Warn("Store create rejected: unsupported logo type", map[string]interface{}{
			"user_id":      userID,
			"content_type": contentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "logo must be a PNG, JPEG, WebP or GIF image")
		return
	}

	result, err := ctrl.storeService.Register(c.Request.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			apperrors.BadRequest(c, apperrors.StoreUsernameTaken, "username already taken")
		case errors.Is(err, service.ErrUserRecordMissing):
			apperrors.RespondWithError(c, http.StatusInternalServerError,
				apperrors.StoreUserRecordMissing,
				"User record not found. Please try logging out and in again.")
		default:
			log.Error("Store registration failed", err, map[string]interface{}{
				"user_id": userID,
			})
			info := apperrors.ParseError(err, "store create")
			apperrors.BadRequest(c, info.Code, info.Message)
		}
		return
	}

	if result.AlreadyApplied {
		c.JSON(http.StatusOK, gin.H{"status": result.Status})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "applied, waiting for approval"})
}

// GetStatus returns the caller's store status.
// GET /api/store/create (soft auth: anonymous callers get "not registered")
func (ctrl *StoreController) GetStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	status, err := ctrl.storeService.Status(userID)
	if err != nil {
		log.Error("Store status lookup failed", err, map[string]interface{}{
			"user_id": userID,
		})
		info := apperrors.ParseError(err, "store status")
		apperrors.BadRequest(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func missingFields(fields map[string]string) []string {
	// Fixed order keeps the error message stable.
	order := []string{"name", "username", "description", "email", "contact", "address"}

	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
