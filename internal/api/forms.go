package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"propertyhub/server/internal/models"
)

const dateLayout = "2006-01-02"

// Numbered form fields backing the bounded property sequences.
const (
	pointPrefix      = "point"
	logoPrefix       = "logo"
	logoTextPrefix   = "logoText"
	floorImgPrefix   = "floorImg"
	pdfPrefix        = "pdf"
	virtualImgPrefix = "virtualImg"
	virtualVidPrefix = "virtualVid"
	imageField       = "imageUrl"
	iconField        = "icon"
	reraField        = "rera"
	logoField        = "logo"
)

var propertyTextFields = []struct {
	key   string
	field func(p *models.Property) *string
}{
	{"name", func(p *models.Property) *string { return &p.Name }},
	{"location", func(p *models.Property) *string { return &p.Location }},
	{"price", func(p *models.Property) *string { return &p.Price }},
	{"status", func(p *models.Property) *string { return &p.Status }},
	{"configuration", func(p *models.Property) *string { return &p.Configuration }},
	{"units", func(p *models.Property) *string { return &p.Units }},
	{"land", func(p *models.Property) *string { return &p.Land }},
	{"residence", func(p *models.Property) *string { return &p.Residence }},
	{"builtup", func(p *models.Property) *string { return &p.Builtup }},
	{"blocks", func(p *models.Property) *string { return &p.Blocks }},
	{"floor", func(p *models.Property) *string { return &p.Floor }},
	{"noofunits", func(p *models.Property) *string { return &p.NoOfUnits }},
	{"unitytype", func(p *models.Property) *string { return &p.UnitType }},
	{"size", func(p *models.Property) *string { return &p.Size }},
	{"range", func(p *models.Property) *string { return &p.Range }},
	{"booking", func(p *models.Property) *string { return &p.Booking }},
	{"token", func(p *models.Property) *string { return &p.Token }},
	{"plans", func(p *models.Property) *string { return &p.Plans }},
	{"amenities", func(p *models.Property) *string { return &p.Amenities }},
	{"virtual", func(p *models.Property) *string { return &p.Virtual }},
	{"payment", func(p *models.Property) *string { return &p.Payment }},
}

// formSlots numbers the repeated inputs of the property forms.
type formSlots struct {
	Points        []int
	Logos         []int
	FloorPlans    []int
	PDFs          []int
	VirtualImages []int
	VirtualVideos []int
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

var propertySlots = formSlots{
	Points:        seq(models.MaxPoints),
	Logos:         seq(models.MaxLogos),
	FloorPlans:    seq(models.MaxFloorPlans),
	PDFs:          seq(models.MaxPDFs),
	VirtualImages: seq(models.MaxVirtualImages),
	VirtualVideos: seq(models.MaxVirtualVideos),
}

func numbered(prefix string, n int) []string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = prefix + strconv.Itoa(i+1)
	}
	return fields
}

// propertyFileFields lists every file input of the property forms.
func propertyFileFields() []string {
	fields := []string{imageField, iconField, reraField}
	fields = append(fields, numbered(floorImgPrefix, models.MaxFloorPlans)...)
	fields = append(fields, numbered(logoPrefix, models.MaxLogos)...)
	fields = append(fields, numbered(pdfPrefix, models.MaxPDFs)...)
	fields = append(fields, numbered(virtualImgPrefix, models.MaxVirtualImages)...)
	fields = append(fields, numbered(virtualVidPrefix, models.MaxVirtualVideos)...)
	return fields
}

// multipartForm parses the request body. Plain url-encoded posts yield a nil form.
func multipartForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return form, err
}

func formValue(c *gin.Context, key string) (string, bool) {
	v, ok := c.GetPostForm(key)
	return strings.TrimSpace(v), ok
}

// listField accepts repeated inputs as well as comma separated values.
func listField(c *gin.Context, key string) ([]string, bool) {
	raw, ok := c.GetPostFormArray(key)
	if !ok {
		return nil, false
	}

	out := []string{}
	seen := make(map[string]bool)
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out, true
}

func parseDate(v string) *time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &t
}

// applyPropertyForm copies the submitted text fields onto p. Fields missing from the
// form keep their current value.
func applyPropertyForm(c *gin.Context, p *models.Property) {
	for _, f := range propertyTextFields {
		if v, ok := formValue(c, f.key); ok {
			*f.field(p) = v
		}
	}

	if v, ok := formValue(c, "description"); ok {
		p.Description = v
	} else if v, ok := formValue(c, "about"); ok {
		p.Description = v
	}

	if v, ok := c.GetPostForm("possession"); ok {
		p.Possession = parseDate(v)
	}

	if categories, ok := listField(c, "categories"); ok {
		p.Categories = categories
	}

	submitted := false
	points := []string{}
	for _, key := range numbered(pointPrefix, models.MaxPoints) {
		v, ok := formValue(c, key)
		submitted = submitted || ok
		if v != "" {
			points = append(points, v)
		}
	}
	if submitted {
		p.Points = points
	}
}

// mergeSlots lays uploaded files over the existing positional sequence. Slots without
// a new file keep their old value; trailing empty slots are dropped.
func mergeSlots(existing []string, uploaded map[string]string, prefix string, n int) []string {
	out := make([]string, n)
	copy(out, existing)
	for i, key := range numbered(prefix, n) {
		if p, ok := uploaded[key]; ok {
			out[i] = p
		}
	}

	last := -1
	for i, v := range out {
		if v != "" {
			last = i
		}
	}
	return out[:last+1]
}

// mergeLogos pairs logoN files with logoTextN captions.
func mergeLogos(c *gin.Context, existing []models.Asset, uploaded map[string]string) []models.Asset {
	out := make([]models.Asset, models.MaxLogos)
	copy(out, existing)
	for i := range out {
		n := strconv.Itoa(i + 1)
		if p, ok := uploaded[logoPrefix+n]; ok {
			out[i].Path = p
		}
		if caption, ok := formValue(c, logoTextPrefix+n); ok {
			out[i].Caption = caption
		}
	}

	last := -1
	for i, a := range out {
		if a != (models.Asset{}) {
			last = i
		}
	}
	return out[:last+1]
}

// applyPropertyFiles merges freshly stored uploads into p.
func applyPropertyFiles(c *gin.Context, p *models.Property, uploaded map[string]string) {
	if v, ok := uploaded[imageField]; ok {
		p.ImageURL = v
	}
	if v, ok := uploaded[iconField]; ok {
		p.Icon = v
	}
	if v, ok := uploaded[reraField]; ok {
		p.Rera = v
	}

	p.FloorPlans = mergeSlots(p.FloorPlans, uploaded, floorImgPrefix, models.MaxFloorPlans)
	p.PDFs = mergeSlots(p.PDFs, uploaded, pdfPrefix, models.MaxPDFs)
	p.VirtualImages = mergeSlots(p.VirtualImages, uploaded, virtualImgPrefix, models.MaxVirtualImages)
	p.VirtualVideos = mergeSlots(p.VirtualVideos, uploaded, virtualVidPrefix, models.MaxVirtualVideos)
	p.Logos = mergeLogos(c, p.Logos, uploaded)
}

func applyDeveloperForm(c *gin.Context, d *models.Developer) {
	if v, ok := formValue(c, "name"); ok {
		d.Name = v
	}
	if v, ok := formValue(c, "established"); ok {
		d.Established = v
	}
	if v, ok := formValue(c, "project"); ok {
		// Non-numeric counts are stored as zero
		d.Project, _ = strconv.Atoi(v)
	}
	if v, ok := formValue(c, "shortDescription"); ok {
		d.ShortDescription = v
	}
	if v, ok := formValue(c, "longDescription"); ok {
		d.LongDescription = v
	}
	if v, ok := listField(c, "ongoingProjects"); ok {
		d.OngoingProjects = v
	}
	if v, ok := listField(c, "cityPresent"); ok {
		d.CityPresent = v
	}
}

func applyTestForm(c *gin.Context, t *models.Test) {
	if v, ok := formValue(c, "name"); ok {
		t.Name = v
	}
	if v, ok := formValue(c, "longDescription"); ok {
		t.LongDescription = v
	}
	if v, ok := formValue(c, "cityPresent"); ok {
		t.CityPresent = v
	}
}
