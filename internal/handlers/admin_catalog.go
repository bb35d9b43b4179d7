// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"synctech/internal/content"
	"synctech/internal/events"
	"synctech/internal/middleware"
	"synctech/internal/models"
	"synctech/internal/render"
	"synctech/internal/session"
	"synctech/internal/storage"
)

// maxUploadSize bounds a multipart editor form: one image plus text fields.
const maxUploadSize = storage.MaxImageSize + 1<<20

// editorState is what a catalog editor page needs besides its list: the
// create form values and, after a failed update, the record being edited.
type editorState[T any] struct {
	Form    T
	Editing *T
}

// createFailed re-renders an editor after a failed create. Validation
// errors answer 422, anything else 500.
func createFailed(r *http.Request, op string, err error) (int, []session.Flash) {
	if errors.Is(err, content.ErrInvalid) {
		return http.StatusUnprocessableEntity, errorFlash(userMessage(err))
	}
	if errors.Is(err, storage.ErrUnsupportedImage) {
		return http.StatusUnprocessableEntity, errorFlash("Images must be JPEG, PNG, WebP or GIF and at most 5 MB.")
	}
	slog.ErrorContext(r.Context(), op+" failed", "error", err)
	return http.StatusInternalServerError, errorFlash("The change could not be saved. Please try again.")
}

// parseEditorForm parses urlencoded and multipart editor forms alike.
func parseEditorForm(w http.ResponseWriter, r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return false
		}
		return true
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return false
	}
	return true
}

// imageField returns the uploaded image's URL when a file was sent and
// storage is configured, otherwise the typed URL field.
func (a *Admin) imageField(r *http.Request, folder storage.Folder) (string, error) {
	if a.images != nil && r.MultipartForm != nil {
		if file, _, err := r.FormFile("image"); err == nil {
			defer file.Close()
			return a.images.UploadImage(r.Context(), folder, file)
		}
	}
	return field(r, "image_url"), nil
}

// dropImage removes a replaced or orphaned upload. Failures only log.
func (a *Admin) dropImage(r *http.Request, url string) {
	if a.images == nil || url == "" {
		return
	}
	if err := a.images.DeleteByURL(r.Context(), url); err != nil {
		slog.WarnContext(r.Context(), "delete image failed", "url", url, "error", err)
	}
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, v := range items {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// --- Portfolio ---

// Portfolio lists projects with the create form.
func (a *Admin) Portfolio(w http.ResponseWriter, r *http.Request) {
	a.portfolioPage(w, r, http.StatusOK, editorState[models.Project]{}, nil)
}

func (a *Admin) portfolioPage(w http.ResponseWriter, r *http.Request, status int, st editorState[models.Project], flashes []session.Flash) {
	projects := a.site.Projects.List(r.Context())
	a.page(w, r, "portfolio", status, &render.PageData{
		Title:   "Portfolio",
		Section: "portfolio",
		Topics:  []events.Topic{events.TopicPortfolio},
		Flashes: flashes,
		Data: map[string]any{
			"Projects":  projects.Items,
			"Failed":    projects.Failed(),
			"Form":      st.Form,
			"Editing":   st.Editing,
			"CanUpload": a.images != nil,
		},
	})
}

func projectFromForm(r *http.Request) models.Project {
	return models.Project{
		Title:       field(r, "title"),
		Category:    field(r, "category"),
		Description: field(r, "description"),
		Link:        field(r, "link"),
	}
}

// PortfolioCreate adds a project.
func (a *Admin) PortfolioCreate(w http.ResponseWriter, r *http.Request) {
	if !parseEditorForm(w, r) {
		return
	}
	p := projectFromForm(r)
	p.ImageURL = field(r, "image_url")
	if msg := validateProject(p); msg != "" {
		a.portfolioPage(w, r, http.StatusUnprocessableEntity, editorState[models.Project]{Form: p}, errorFlash(msg))
		return
	}

	url, err := a.imageField(r, storage.FolderPortfolio)
	if err == nil {
		p.ImageURL = url
		_, err = a.site.Projects.Add(r.Context(), p)
	}
	if err != nil {
		status, flashes := createFailed(r, "create project", err)
		a.portfolioPage(w, r, status, editorState[models.Project]{Form: p}, flashes)
		return
	}
	a.done(w, r, "/admin/portfolio", "Project added.")
}

// PortfolioUpdate edits a project.
func (a *Admin) PortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !parseEditorForm(w, r) {
		return
	}
	p := projectFromForm(r)
	p.ID = id
	p.ImageURL = field(r, "image_url")
	if msg := validateProject(p); msg != "" {
		a.portfolioPage(w, r, http.StatusUnprocessableEntity, editorState[models.Project]{Editing: &p}, errorFlash(msg))
		return
	}

	previous := r.FormValue("current_image")
	url, err := a.imageField(r, storage.FolderPortfolio)
	if err == nil {
		p.ImageURL = url
		err = a.site.Projects.Update(r.Context(), p)
	}
	if err != nil {
		status, flashes := createFailed(r, "update project", err)
		a.portfolioPage(w, r, status, editorState[models.Project]{Editing: &p}, flashes)
		return
	}
	if previous != p.ImageURL {
		a.dropImage(r, previous)
	}
	a.done(w, r, "/admin/portfolio", "Project updated.")
}

// PortfolioDelete removes a project and its uploaded image.
func (a *Admin) PortfolioDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, _ := find(a.site.Projects.List(r.Context()).Items, func(p models.Project) bool { return p.ID == id })
	if err := a.site.Projects.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/portfolio", "delete project", err)
		return
	}
	a.dropImage(r, existing.ImageURL)
	a.done(w, r, "/admin/portfolio", "Project deleted.")
}

// --- Testimonials ---

// Testimonials lists client quotes with the create form.
func (a *Admin) Testimonials(w http.ResponseWriter, r *http.Request) {
	a.testimonialsPage(w, r, http.StatusOK, editorState[models.Testimonial]{Form: models.Testimonial{Rating: models.MaxRating}}, nil)
}

func (a *Admin) testimonialsPage(w http.ResponseWriter, r *http.Request, status int, st editorState[models.Testimonial], flashes []session.Flash) {
	items := a.site.Testimonials.List(r.Context())
	a.page(w, r, "testimonials", status, &render.PageData{
		Title:   "Testimonials",
		Section: "testimonials",
		Topics:  []events.Topic{events.TopicTestimonials},
		Flashes: flashes,
		Data: map[string]any{
			"Testimonials": items.Items,
			"Failed":       items.Failed(),
			"Form":         st.Form,
			"Editing":      st.Editing,
			"CanUpload":    a.images != nil,
		},
	})
}

func testimonialFromForm(r *http.Request) models.Testimonial {
	rating, _ := strconv.Atoi(r.FormValue("rating"))
	return models.Testimonial{
		Name:    field(r, "name"),
		Role:    field(r, "role"),
		Company: field(r, "company"),
		Quote:   field(r, "quote"),
		Rating:  rating,
		Image:   optional(field(r, "image_url")),
	}
}

// TestimonialCreate adds a testimonial.
func (a *Admin) TestimonialCreate(w http.ResponseWriter, r *http.Request) {
	if !parseEditorForm(w, r) {
		return
	}
	t := testimonialFromForm(r)
	if msg := validateTestimonial(t); msg != "" {
		a.testimonialsPage(w, r, http.StatusUnprocessableEntity, editorState[models.Testimonial]{Form: t}, errorFlash(msg))
		return
	}

	url, err := a.imageField(r, storage.FolderTestimonials)
	if err == nil {
		t.Image = optional(url)
		_, err = a.site.Testimonials.Add(r.Context(), t)
	}
	if err != nil {
		status, flashes := createFailed(r, "create testimonial", err)
		a.testimonialsPage(w, r, status, editorState[models.Testimonial]{Form: t}, flashes)
		return
	}
	a.done(w, r, "/admin/testimonials", "Testimonial added.")
}

// TestimonialUpdate edits a testimonial.
func (a *Admin) TestimonialUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !parseEditorForm(w, r) {
		return
	}
	t := testimonialFromForm(r)
	t.ID = id
	if msg := validateTestimonial(t); msg != "" {
		a.testimonialsPage(w, r, http.StatusUnprocessableEntity, editorState[models.Testimonial]{Editing: &t}, errorFlash(msg))
		return
	}

	previous := r.FormValue("current_image")
	url, err := a.imageField(r, storage.FolderTestimonials)
	if err == nil {
		t.Image = optional(url)
		err = a.site.Testimonials.Update(r.Context(), t)
	}
	if err != nil {
		status, flashes := createFailed(r, "update testimonial", err)
		a.testimonialsPage(w, r, status, editorState[models.Testimonial]{Editing: &t}, flashes)
		return
	}
	if previous != url {
		a.dropImage(r, previous)
	}
	a.done(w, r, "/admin/testimonials", "Testimonial updated.")
}

// TestimonialDelete removes a testimonial and its uploaded photo.
func (a *Admin) TestimonialDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, _ := find(a.site.Testimonials.List(r.Context()).Items, func(t models.Testimonial) bool { return t.ID == id })
	if err := a.site.Testimonials.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/testimonials", "delete testimonial", err)
		return
	}
	if existing.Image != nil {
		a.dropImage(r, *existing.Image)
	}
	a.done(w, r, "/admin/testimonials", "Testimonial deleted.")
}

// --- Services ---

// Services lists the service offerings with the create form.
func (a *Admin) Services(w http.ResponseWriter, r *http.Request) {
	a.servicesPage(w, r, http.StatusOK, editorState[models.Service]{}, nil)
}

func (a *Admin) servicesPage(w http.ResponseWriter, r *http.Request, status int, st editorState[models.Service], flashes []session.Flash) {
	items := a.site.Services.List(r.Context())
	a.page(w, r, "services", status, &render.PageData{
		Title:   "Services",
		Section: "services",
		Topics:  []events.Topic{events.TopicServices},
		Flashes: flashes,
		Data: map[string]any{
			"Services":   items.Items,
			"Failed":     items.Failed(),
			"Form":       st.Form,
			"Editing":    st.Editing,
			"NextNumber": content.ServiceNumber(items.Len() + 1),
		},
	})
}

func serviceFromForm(r *http.Request) models.Service {
	return models.Service{
		Number:      field(r, "number"),
		Title:       field(r, "title"),
		Description: field(r, "description"),
		Icon:        optional(field(r, "icon")),
	}
}

// ServiceCreate adds a service. A blank number takes the next position.
func (a *Admin) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	sv := serviceFromForm(r)
	if msg := validateService(sv); msg != "" {
		a.servicesPage(w, r, http.StatusUnprocessableEntity, editorState[models.Service]{Form: sv}, errorFlash(msg))
		return
	}
	if _, err := a.site.Services.Add(r.Context(), sv); err != nil {
		status, flashes := createFailed(r, "create service", err)
		a.servicesPage(w, r, status, editorState[models.Service]{Form: sv}, flashes)
		return
	}
	a.done(w, r, "/admin/services", "Service added.")
}

// ServiceUpdate edits a service.
func (a *Admin) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sv := serviceFromForm(r)
	sv.ID = id
	msg := validateService(sv)
	if msg == "" && sv.Number == "" {
		msg = "Number is required."
	}
	if msg != "" {
		a.servicesPage(w, r, http.StatusUnprocessableEntity, editorState[models.Service]{Editing: &sv}, errorFlash(msg))
		return
	}
	if err := a.site.Services.Update(r.Context(), sv); err != nil {
		status, flashes := createFailed(r, "update service", err)
		a.servicesPage(w, r, status, editorState[models.Service]{Editing: &sv}, flashes)
		return
	}
	a.done(w, r, "/admin/services", "Service updated.")
}

// ServiceDelete removes a service.
func (a *Admin) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.site.Services.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/services", "delete service", err)
		return
	}
	a.done(w, r, "/admin/services", "Service deleted.")
}

// --- Pricing ---

// Pricing lists the pricing plans with the create form.
func (a *Admin) Pricing(w http.ResponseWriter, r *http.Request) {
	a.pricingPage(w, r, http.StatusOK, editorState[models.PricingPlan]{Form: models.PricingPlan{Period: "/project", CTAText: "Get Started"}}, nil)
}

func (a *Admin) pricingPage(w http.ResponseWriter, r *http.Request, status int, st editorState[models.PricingPlan], flashes []session.Flash) {
	plans := a.site.Plans.List(r.Context())
	a.page(w, r, "pricing", status, &render.PageData{
		Title:   "Pricing",
		Section: "pricing",
		Topics:  []events.Topic{events.TopicPricing},
		Flashes: flashes,
		Data: map[string]any{
			"Plans":   plans.Items,
			"Failed":  plans.Failed(),
			"Form":    st.Form,
			"Editing": st.Editing,
		},
	})
}

func planFromForm(r *http.Request) models.PricingPlan {
	order, _ := strconv.Atoi(r.FormValue("display_order"))
	return models.PricingPlan{
		Name:         field(r, "name"),
		Icon:         field(r, "icon"),
		Price:        field(r, "price"),
		Period:       field(r, "period"),
		Description:  field(r, "description"),
		Features:     splitLines(r.FormValue("features")),
		CTAText:      field(r, "cta_text"),
		IsPopular:    r.FormValue("is_popular") == "on",
		DisplayOrder: order,
	}
}

// PlanCreate appends a pricing plan.
func (a *Admin) PlanCreate(w http.ResponseWriter, r *http.Request) {
	p := planFromForm(r)
	if msg := validatePlan(p); msg != "" {
		a.pricingPage(w, r, http.StatusUnprocessableEntity, editorState[models.PricingPlan]{Form: p}, errorFlash(msg))
		return
	}
	if _, err := a.site.Plans.Add(r.Context(), p); err != nil {
		status, flashes := createFailed(r, "create pricing plan", err)
		a.pricingPage(w, r, status, editorState[models.PricingPlan]{Form: p}, flashes)
		return
	}
	a.done(w, r, "/admin/pricing", "Plan added.")
}

// PlanUpdate edits a pricing plan, including its position.
func (a *Admin) PlanUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p := planFromForm(r)
	p.ID = id
	if msg := validatePlan(p); msg != "" {
		a.pricingPage(w, r, http.StatusUnprocessableEntity, editorState[models.PricingPlan]{Editing: &p}, errorFlash(msg))
		return
	}
	if err := a.site.Plans.Update(r.Context(), p); err != nil {
		status, flashes := createFailed(r, "update pricing plan", err)
		a.pricingPage(w, r, status, editorState[models.PricingPlan]{Editing: &p}, flashes)
		return
	}
	a.done(w, r, "/admin/pricing", "Plan updated.")
}

// PlanDelete removes a pricing plan.
func (a *Admin) PlanDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.site.Plans.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/pricing", "delete pricing plan", err)
		return
	}
	a.done(w, r, "/admin/pricing", "Plan deleted.")
}

// --- Blog ---

// Blog lists every post, drafts included, with the header and post forms.
func (a *Admin) Blog(w http.ResponseWriter, r *http.Request) {
	a.blogPage(w, r, http.StatusOK, blogState{}, nil)
}

type blogState struct {
	Form    content.PostInput
	Editing *models.BlogPost
	Header  *models.BlogHeader
}

func (a *Admin) blogPage(w http.ResponseWriter, r *http.Request, status int, st blogState, flashes []session.Flash) {
	ctx := r.Context()
	posts := a.site.Posts.All(ctx)
	header := a.site.BlogHeader.Get(ctx)
	if st.Header != nil {
		header = *st.Header
	}
	if st.Form.Author == "" {
		if sess := middleware.SessionFromCtx(ctx); sess != nil {
			st.Form.Author = sess.DisplayName
		}
	}

	a.page(w, r, "blog", status, &render.PageData{
		Title:   "Blog",
		Section: "blog",
		Topics:  []events.Topic{events.TopicBlog, events.TopicBlogHeader},
		Flashes: flashes,
		Data: map[string]any{
			"Posts":   posts.Items,
			"Failed":  posts.Failed(),
			"Header":  header,
			"Form":    st.Form,
			"Editing": st.Editing,
		},
	})
}

// PostCreate publishes a new post (or saves a draft).
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	in := content.PostInput{
		Title:   field(r, "title"),
		Content: r.FormValue("content"),
		Excerpt: field(r, "excerpt"),
		Author:  field(r, "author"),
		Draft:   r.FormValue("published") != "on",
	}
	if msg := validatePost(in.Title, in.Content, in.Excerpt); msg != "" {
		a.blogPage(w, r, http.StatusUnprocessableEntity, blogState{Form: in}, errorFlash(msg))
		return
	}
	if in.Excerpt == "" {
		in.Excerpt = autoExcerpt(in.Content)
	}
	post, err := a.site.Posts.Add(r.Context(), in)
	if err != nil {
		status, flashes := createFailed(r, "create post", err)
		a.blogPage(w, r, status, blogState{Form: in}, flashes)
		return
	}
	msg := "Post published at /blog/" + post.Slug + "."
	if !post.Published {
		msg = "Draft saved."
	}
	a.done(w, r, "/admin/blog", msg)
}

// PostUpdate edits a post. The slug never changes.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p := models.BlogPost{
		ID:        id,
		Title:     field(r, "title"),
		Content:   r.FormValue("content"),
		Excerpt:   field(r, "excerpt"),
		Author:    field(r, "author"),
		Slug:      r.FormValue("slug"),
		Published: r.FormValue("published") == "on",
	}
	if msg := validatePost(p.Title, p.Content, p.Excerpt); msg != "" {
		a.blogPage(w, r, http.StatusUnprocessableEntity, blogState{Editing: &p}, errorFlash(msg))
		return
	}
	if err := a.site.Posts.Update(r.Context(), p); err != nil {
		status, flashes := createFailed(r, "update post", err)
		a.blogPage(w, r, status, blogState{Editing: &p}, flashes)
		return
	}
	a.done(w, r, "/admin/blog", "Post updated.")
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.site.Posts.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/blog", "delete post", err)
		return
	}
	a.done(w, r, "/admin/blog", "Post deleted.")
}

// BlogHeaderSave stores the banner above the public blog list.
func (a *Admin) BlogHeaderSave(w http.ResponseWriter, r *http.Request) {
	h := models.BlogHeader{
		Title:    field(r, "title"),
		Subtitle: field(r, "subtitle"),
		Badge:    field(r, "badge"),
	}
	if msg := validateBlogHeader(h); msg != "" {
		a.blogPage(w, r, http.StatusUnprocessableEntity, blogState{Header: &h}, errorFlash(msg))
		return
	}
	if err := a.site.BlogHeader.Save(r.Context(), h); err != nil {
		status, flashes := createFailed(r, "save blog header", err)
		a.blogPage(w, r, status, blogState{Header: &h}, flashes)
		return
	}
	a.done(w, r, "/admin/blog", "Blog header saved.")
}
