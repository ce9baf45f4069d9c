package content

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/metrics"
	"intranet-portal-backend/pkg/models"
)

// Service 内容写入与读取流程：Normalize -> Validate -> 持久化 -> 附属写入 -> Transform
//
// 附属写入（标签、图片、附件）采用 best-effort 策略：主记录提交后单独执行，
// 失败只记录日志与指标，不影响请求结果。
type Service struct {
	db             database.DatabaseInterface
	metrics        *metrics.Metrics
	log            zerolog.Logger
	systemAuthorID int64
}

// NewService 创建内容服务
func NewService(db database.DatabaseInterface, m *metrics.Metrics, log zerolog.Logger, systemAuthorID int64) *Service {
	if m == nil {
		m = metrics.Nop()
	}
	return &Service{db: db, metrics: m, log: log, systemAuthorID: systemAuthorID}
}

// Create stores a new submission. callerID is the authenticated user, 0 if anonymous.
func (s *Service) Create(ctx context.Context, payload map[string]interface{}, callerID int64) (view *View, err error) {
	defer func() { s.observe("create", err) }()

	rec, err := Normalize(payload)
	if err != nil {
		return nil, err
	}
	if err := ValidateCreate(rec); err != nil {
		return nil, err
	}

	item := &models.ContentItem{
		Title:              rec.Title.Val,
		Body:               rec.Body.Val,
		RenderedBody:       rec.RenderedBody.Val,
		PublishTarget:      rec.PublishTarget.Val,
		CategoryID:         rec.CategoryID.Val,
		SubspaceID:         rec.SubspaceID.Val,
		PlaceID:            rec.PlaceID.Val,
		RestrictedComments: rec.RestrictedComments.Val,
		IsPlaceScoped:      rec.IsPlaceScoped.Val,
		AuthorID:           s.resolveAuthor(rec, callerID),
		Status:             models.StatusPublished,
	}
	if rec.Status.Set {
		item.Status = rec.Status.Val
	}
	if item.Status == models.StatusPublished {
		t := time.Now().UTC().Truncate(time.Microsecond)
		item.PublishedAt = &t
	}

	if err := s.db.CreateContent(ctx, item); err != nil {
		return nil, err
	}

	log := s.logger(ctx).With().Int64("content_id", item.ID).Logger()
	if tagIDs := s.resolveTags(ctx, &log, rec); len(tagIDs) > 0 {
		if err := s.db.AddContentTags(ctx, item.ID, tagIDs); err != nil {
			s.enrichmentFailed(&log, metrics.StepTagLink, err)
		}
	}
	if err := s.db.AddContentImages(ctx, item.ID, rec.ImageURLs); err != nil {
		s.enrichmentFailed(&log, metrics.StepImages, err)
	}
	if err := s.db.AddContentAttachments(ctx, item.ID, rec.Attachments); err != nil {
		s.enrichmentFailed(&log, metrics.StepAttachments, err)
	}

	v, err := s.assemble(ctx, item)
	if err != nil {
		// the record is stored; answer with what we have
		log.Warn().Err(err).Msg("⚠️  content stored but read-back failed")
		v = Transform(item, nil, nil, nil, nil, nil)
	}
	log.Info().Str("publish_to", item.PublishTarget).Msg("✅ Content created")
	return &v, nil
}

// Update applies a partial update. Images and attachments are never touched;
// the tag set is replaced only when the payload mentions tags.
func (s *Service) Update(ctx context.Context, id int64, payload map[string]interface{}) (view *View, err error) {
	defer func() { s.observe("update", err) }()

	current, err := s.db.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	rec, err := Normalize(payload)
	if err != nil {
		return nil, err
	}
	if err := ValidatePatch(rec, current); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}
	if rec.Title.Set {
		patch["title"] = rec.Title.Val
	}
	if rec.Body.Set {
		patch["body"] = rec.Body.Val
	}
	if rec.RenderedBody.Set {
		patch["rendered_body"] = rec.RenderedBody.Val
	}
	if rec.PublishTarget.Set {
		patch["publish_target"] = rec.PublishTarget.Val
	}
	if rec.CategoryID.Set {
		patch["category_id"] = rec.CategoryID.Val
	}
	if rec.SubspaceID.Set {
		patch["subspace_id"] = rec.SubspaceID.Val
	}
	if rec.PlaceID.Set {
		patch["place_id"] = rec.PlaceID.Val
	}
	if rec.RestrictedComments.Set {
		patch["restricted_comments"] = rec.RestrictedComments.Val
	}
	if rec.IsPlaceScoped.Set {
		patch["is_place_scoped"] = rec.IsPlaceScoped.Val
	}
	if rec.AuthorID.Set {
		patch["author_id"] = rec.AuthorID.Val
	}
	if rec.Status.Set {
		patch["status"] = rec.Status.Val
		if rec.Status.Val == models.StatusPublished && current.PublishedAt == nil {
			patch["published_at"] = time.Now().UTC().Truncate(time.Microsecond)
		}
	}

	if err := s.db.UpdateContentPartial(ctx, id, patch); err != nil {
		return nil, err
	}

	log := s.logger(ctx).With().Int64("content_id", id).Logger()
	if rec.HasTags() {
		if err := s.db.ReplaceContentTags(ctx, id, s.resolveTags(ctx, &log, rec)); err != nil {
			s.enrichmentFailed(&log, metrics.StepTagLink, err)
		}
	}

	return s.Get(ctx, id)
}

// Get 读取单条内容
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	item, err := s.db.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.assemble(ctx, item)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List 按条件列出内容
func (s *Service) List(ctx context.Context, filter models.ContentFilter) ([]View, error) {
	items, err := s.db.ListContent(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(items))
	for i := range items {
		v, err := s.assemble(ctx, &items[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Delete removes the item with its tag links, images and attachments.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.observe("delete", err) }()
	return s.db.DeleteContent(ctx, id)
}

// resolveAuthor: explicit authorId, then the caller, then the system identity.
func (s *Service) resolveAuthor(rec *Record, callerID int64) int64 {
	if rec.AuthorID.Set {
		return rec.AuthorID.Val
	}
	if callerID > 0 {
		return callerID
	}
	return s.systemAuthorID
}

// resolveTags merges explicit ids with find-or-create results for tag names.
func (s *Service) resolveTags(ctx context.Context, log *zerolog.Logger, rec *Record) []int64 {
	ids := make([]int64, 0, len(rec.TagIDs.Val)+len(rec.TagNames.Val))
	seen := map[int64]bool{}
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range rec.TagIDs.Val {
		add(id)
	}
	for _, name := range rec.TagNames.Val {
		tag, err := s.db.FindOrCreateTag(ctx, name)
		if err != nil {
			s.enrichmentFailed(log, metrics.StepTagResolve, err)
			continue
		}
		s.metrics.TagsResolved.Inc()
		add(tag.ID)
	}
	return ids
}

// assemble loads the children of item and builds its view.
func (s *Service) assemble(ctx context.Context, item *models.ContentItem) (View, error) {
	tags, err := s.db.ListContentTags(ctx, item.ID)
	if err != nil {
		return View{}, err
	}
	images, err := s.db.ListContentImages(ctx, item.ID)
	if err != nil {
		return View{}, err
	}
	atts, err := s.db.ListContentAttachments(ctx, item.ID)
	if err != nil {
		return View{}, err
	}

	author, err := s.db.GetUserByID(ctx, item.AuthorID)
	if err != nil && !apperrors.IsNotFound(err) {
		return View{}, err
	}

	var place *models.Place
	if item.PlaceID != nil {
		// a dangling place id reads as "no place"
		place, err = s.db.GetPlace(ctx, *item.PlaceID)
		if err != nil && !apperrors.IsNotFound(err) {
			return View{}, err
		}
	}
	return Transform(item, tags, images, atts, author, place), nil
}

func (s *Service) enrichmentFailed(log *zerolog.Logger, step string, err error) {
	s.metrics.EnrichmentFailures.WithLabelValues(step).Inc()
	log.Warn().Err(err).Str("step", step).Msg("⚠️  content enrichment failed")
}

func (s *Service) observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case apperrors.IsValidation(err):
		outcome = "invalid"
	case apperrors.IsNotFound(err):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.ContentOps.WithLabelValues(op, outcome).Inc()
}

// logger prefers the request-scoped logger installed by the HTTP middleware.
func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}
