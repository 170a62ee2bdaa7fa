package converter

import (
	"medilink-api/internal/delivery/dto"
	"medilink-api/internal/domain/entity"
)

// AnnonceToResponse converts an Annonce entity, computing the discounted price.
func AnnonceToResponse(annonce *entity.Annonce) *dto.AnnonceResponse {
	if annonce == nil {
		return nil
	}

	images := []string(annonce.Images)
	if images == nil {
		images = []string{}
	}

	response := &dto.AnnonceResponse{
		ID:                   annonce.ID,
		UserID:               annonce.UserID,
		Title:                annonce.Title,
		Description:          annonce.Description,
		Price:                annonce.Price,
		DiscountedPrice:      annonce.DiscountedPrice(),
		PourcentageReduction: entity.ClampDiscount(annonce.PourcentageReduction),
		Address:              annonce.Address,
		Phone:                annonce.Phone,
		Email:                annonce.Email,
		Images:               images,
		IsActive:             annonce.IsActive,
		CreatedAt:            annonce.CreatedAt,
		UpdatedAt:            annonce.UpdatedAt,
	}

	if annonce.User != nil {
		response.User = &dto.AnnonceOwnerResponse{
			ID:     annonce.User.ID,
			Name:   annonce.User.Name,
			RoleID: annonce.User.RoleID,
		}
	}

	return response
}

func AnnoncesToResponses(annonces []entity.Annonce) []dto.AnnonceResponse {
	responses := make([]dto.AnnonceResponse, len(annonces))
	for i := range annonces {
		responses[i] = *AnnonceToResponse(&annonces[i])
	}
	return responses
}
