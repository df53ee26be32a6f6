// Package compose validates the create-post form before anything is sent.
package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/hindiconfession/cli/pkg/api"
	clierrors "github.com/hindiconfession/cli/pkg/errors"
)

const (
	MaxImages     = 4
	MaxImageBytes = 5 * 1024 * 1024
	maxImageMB    = MaxImageBytes / (1024 * 1024)
)

// Allowed values of the enumerated fields
var (
	NsfwLevels    = []string{"normal", "spicy", "explicit"}
	AdviceModes   = []string{"just-sharing", "want-advice"}
	ExpiryOptions = []string{"never", "24h", "7d", "30d"}
	Moods         = []string{"horny", "lonely", "guilty", "curious", "happy"}
	ImageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// Image is an attachment read from disk.
type Image struct {
	Name string
	Data []byte
	MIME string
}

// Form is the create-post form.
type Form struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Content      string   `json:"content" validate:"required,min=10,max=10000"`
	Tags         []string `json:"tags" validate:"min=1,max=3,dive,required"`
	NsfwLevel    string   `json:"nsfwLevel" validate:"oneof=normal spicy explicit"`
	AdviceMode   string   `json:"adviceMode" validate:"oneof=just-sharing want-advice"`
	ExpiryOption string   `json:"expiryOption" validate:"oneof=never 24h 7d 30d"`
	Mood         string   `json:"mood" validate:"omitempty,oneof=horny lonely guilty curious happy"`
	AuthorAlias  string   `json:"authorAlias" validate:"omitempty,max=20"`
	CommunityID  string   `json:"communityId"`
	Images       []Image  `json:"images" validate:"max=4"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims text fields, drops empty and duplicate tags and fills in
// defaults for the enumerated fields.
func (f *Form) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.AuthorAlias = strings.TrimSpace(f.AuthorAlias)
	f.CommunityID = strings.TrimSpace(f.CommunityID)

	seen := make(map[string]bool, len(f.Tags))
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	f.Tags = tags

	if f.NsfwLevel == "" {
		f.NsfwLevel = NsfwLevels[0]
	}
	if f.AdviceMode == "" {
		f.AdviceMode = AdviceModes[0]
	}
	if f.ExpiryOption == "" {
		f.ExpiryOption = ExpiryOptions[0]
	}
}

// Validate normalizes the form and checks every constraint. The first
// violation is returned as a validation CLIError naming the field.
func (f *Form) Validate() error {
	f.Normalize()

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return clierrors.NewCLIError(clierrors.ErrorTypeValidation, err.Error(), err)
	}

	for i := range f.Images {
		if err := checkImage(&f.Images[i]); err != nil {
			return err
		}
	}
	return nil
}

func fieldError(fe validator.FieldError) *clierrors.CLIError {
	field := fe.Field()
	if i := strings.Index(field, "["); i > 0 {
		field = field[:i]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			reason = fmt.Sprintf("select at least %s", fe.Param())
		} else {
			reason = fmt.Sprintf("must be at least %s characters", fe.Param())
		}
	case "max":
		if fe.Kind() == reflect.Slice {
			reason = fmt.Sprintf("at most %s allowed", fe.Param())
		} else {
			reason = fmt.Sprintf("must be at most %s characters", fe.Param())
		}
	case "oneof":
		reason = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		reason = fmt.Sprintf("failed %s", fe.Tag())
	}
	return clierrors.ValidationError(field, reason)
}

func checkImage(img *Image) error {
	if len(img.Data) > MaxImageBytes {
		return clierrors.ImageSizeError(img.Name, float64(len(img.Data))/(1024*1024), maxImageMB)
	}

	mt := mimetype.Detect(img.Data)
	for _, allowed := range ImageTypes {
		if mt.Is(allowed) {
			img.MIME = allowed
			return nil
		}
	}
	return clierrors.ImageFormatError(img.Name, mt.String())
}

// LoadImage reads an attachment from disk.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Image{}, clierrors.FileNotFoundError(path)
		}
		return Image{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return Image{Name: filepath.Base(path), Data: data}, nil
}

// Request converts a validated form to the multipart request.
func (f *Form) Request() api.CreatePostRequest {
	req := api.CreatePostRequest{
		Title:        f.Title,
		Content:      f.Content,
		Tags:         append([]string(nil), f.Tags...),
		NsfwLevel:    f.NsfwLevel,
		AdviceMode:   f.AdviceMode,
		ExpiryOption: f.ExpiryOption,
		Mood:         f.Mood,
		AuthorAlias:  f.AuthorAlias,
		CommunityID:  f.CommunityID,
	}
	for _, img := range f.Images {
		req.Images = append(req.Images, api.ImageUpload{
			FileName:    img.Name,
			ContentType: img.MIME,
			Data:        img.Data,
		})
	}
	return req
}
