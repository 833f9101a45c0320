package workflow

import (
	"context"
	"errors"
	"log"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// MaxListingImages is how many photos a listing stores; extra uploads are
// dropped, not rejected.
const MaxListingImages = 4

// ImageUpload is one photo received with a listing submission.
type ImageUpload struct {
	Data     []byte
	Filename string
}

// PropertyInput carries the listing form as it arrives off the wire.
// Numeric fields stay strings here; they are coerced with a zero default
// so bad numeric input never rejects a listing.
type PropertyInput struct {
	Title         string
	Location      string
	Price         string
	Beds          string
	Baths         string
	Sqft          string
	Type          string
	Availability  string
	Description   string
	Amenities     []string
	Phone         string
	GoogleMapLink string
	Lat           string
	Lng           string
}

// CreateProperty runs the listing creation workflow: entitlement checks
// for non-admin requesters, image persistence, document insert, and the
// atomic quota consumption. The created listing always starts pending.
func (s *Service) CreateProperty(ctx context.Context, actor Actor, input PropertyInput, images []ImageUpload) (*models.Property, error) {
	privileged := IsPrivileged(actor)

	var limit int
	if !privileged {
		user, err := s.Users.GetUser(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, errEntitlement("subscription required")
			}
			return nil, err
		}
		sub := user.Subscription
		if sub == nil {
			return nil, errEntitlement("subscription required")
		}
		if sub.ExpiryDate.Before(s.now()) {
			return nil, errEntitlement("subscription expired")
		}
		plan, err := s.Users.GetPlan(ctx, sub.PlanID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, errEntitlement("subscription required")
			}
			return nil, err
		}
		if sub.UsedListings >= plan.ListingLimit {
			return nil, errEntitlement("listing limit reached")
		}
		limit = plan.ListingLimit
	}

	if len(images) == 0 {
		return nil, errValidation("at least one image required")
	}
	if len(images) > MaxListingImages {
		images = images[:MaxListingImages]
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.Images.Upload(ctx, img.Data, img.Filename)
		if err != nil {
			return nil, errUpload("image upload failed", err)
		}
		urls = append(urls, url)
	}

	property := &models.Property{
		Title:         input.Title,
		Location:      input.Location,
		Price:         CoerceFloat(input.Price),
		Beds:          CoerceInt(input.Beds),
		Baths:         CoerceInt(input.Baths),
		Sqft:          CoerceInt(input.Sqft),
		Type:          input.Type,
		Availability:  NormalizeAvailability(input.Availability),
		Description:   input.Description,
		Amenities:     input.Amenities,
		Images:        urls,
		Phone:         input.Phone,
		GoogleMapLink: input.GoogleMapLink,
		Coordinates:   parseCoordinates(input.Lat, input.Lng),
		Owner:         actor.ID,
		Status:        models.PropertyPending,
		CreatedAt:     s.now(),
	}

	if !privileged {
		// The conditional increment is the real gate; the reads above only
		// produce the specific refusal message. A concurrent create by the
		// same user loses here, not at the read.
		if err := s.Users.ConsumeListing(ctx, actor.ID, limit); err != nil {
			if errors.Is(err, ErrLimitReached) {
				return nil, errEntitlement("listing limit reached")
			}
			return nil, err
		}
	}

	if err := s.Properties.Insert(ctx, property); err != nil {
		if !privileged {
			// Best effort; if the release also fails the user loses one slot
			// until resubscribing, and the insert failure is what we surface.
			if relErr := s.Users.ReleaseListing(ctx, actor.ID); relErr != nil {
				log.Printf("releasing listing quota for %s after failed insert: %v", actor.ID.Hex(), relErr)
			}
		}
		return nil, err
	}

	return property, nil
}

// Fields callers can never set through an update; status belongs to
// moderation and ownership never moves.
var protectedFields = []string{"_id", "id", "owner", "status", "createdAt"}

// Fields only admins may flip.
var adminFields = []string{"isFeatured", "isVerified"}

// UpdateProperty applies a partial update after the shared ownership
// gate. Protected fields are stripped rather than rejected, matching the
// permissive transport; availability values are normalized on the way in.
func (s *Service) UpdateProperty(ctx context.Context, actor Actor, id primitive.ObjectID, fields map[string]interface{}) (*models.Property, error) {
	property, err := s.Properties.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errNotFound("property not found")
		}
		return nil, err
	}
	if !CanModify(actor, property) {
		return nil, errAuthorization("not allowed to modify this property")
	}

	for _, f := range protectedFields {
		delete(fields, f)
	}
	if !IsPrivileged(actor) {
		for _, f := range adminFields {
			delete(fields, f)
		}
	}
	if v, ok := fields["availability"].(string); ok {
		fields["availability"] = NormalizeAvailability(v)
	}
	for _, f := range []string{"price", "beds", "baths", "sqft"} {
		if v, ok := fields[f].(string); ok {
			fields[f] = CoerceFloat(v)
		}
	}
	if len(fields) == 0 {
		return property, nil
	}

	if err := s.Properties.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Properties.Get(ctx, id)
}

// DeleteProperty removes a listing after the ownership gate. Quota is
// deliberately not handed back; a deleted listing stays spent for the
// current subscription period.
func (s *Service) DeleteProperty(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	property, err := s.Properties.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("property not found")
		}
		return err
	}
	if !CanModify(actor, property) {
		return errAuthorization("not allowed to modify this property")
	}
	return s.Properties.Delete(ctx, id)
}

func parseCoordinates(lat, lng string) *models.Coordinates {
	if lat == "" || lng == "" {
		return nil
	}
	la, err1 := strconv.ParseFloat(lat, 64)
	ln, err2 := strconv.ParseFloat(lng, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &models.Coordinates{Lat: la, Lng: ln}
}
