// Package content turns raw content submissions into stored records and stored
// records into the external API representation.
//
// 提交字段存在多套历史命名，所有同义字段的解析集中在 Normalize 中完成，
// 其余代码只处理规范化后的 Record。
package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

// DefaultMimeType is used for attachments submitted without a MIME type.
const DefaultMimeType = "application/octet-stream"

// 每个逻辑字段接受的输入键，按优先级排列
var (
	titleKeys              = []string{"subject", "title"}
	bodyKeys               = []string{"content"}
	renderedBodyKeys       = []string{"contentHtml", "content_html"}
	publishTargetKeys      = []string{"publishTo", "publish_to"}
	categoryKeys           = []string{"categoryId", "category_id"}
	subspaceKeys           = []string{"spaceId", "space_id"}
	placeKeys              = []string{"placeId", "place_id"}
	restrictedCommentsKeys = []string{"restrictReplies", "restrictedComments", "restricted_comments"}
	placeScopedKeys        = []string{"isPlaceBlog", "is_place_blog"}
	authorKeys             = []string{"authorId", "author_id"}
	statusKeys             = []string{"status"}
	tagIDKeys              = []string{"tagIds", "tag_ids"}
	tagNameKeys            = []string{"tags"}
	imageKeys              = []string{"contentImages", "imageUrls", "image_urls", "images"}
	attachmentKeys         = []string{"attachments"}

	attachmentURLKeys  = []string{"url", "file_url", "ref"}
	attachmentNameKeys = []string{"name", "filename", "file_name"}
	attachmentSizeKeys = []string{"size", "file_size"}
	attachmentMimeKeys = []string{"contentType", "mimeType", "mime_type"}
	imageRefKeys       = []string{"ref", "url"}
)

// Opt records whether a field was present in the submission.
type Opt[T any] struct {
	Set bool
	Val T
}

func some[T any](v T) Opt[T] { return Opt[T]{Set: true, Val: v} }

// Record 规范化后的提交内容
type Record struct {
	Title              Opt[string]
	Body               Opt[string]
	RenderedBody       Opt[string]
	PublishTarget      Opt[string]
	CategoryID         Opt[*int64]
	SubspaceID         Opt[*int64]
	PlaceID            Opt[*int64]
	RestrictedComments Opt[bool]
	IsPlaceScoped      Opt[bool]
	AuthorID           Opt[int64]
	Status             Opt[models.ContentStatus]
	TagIDs             Opt[[]int64]
	TagNames           Opt[[]string]
	ImageURLs          []string
	Attachments        []models.ContentAttachment
}

// HasTags reports whether the submission mentioned tags in any form.
func (r *Record) HasTags() bool {
	return r.TagIDs.Set || r.TagNames.Set
}

// Normalize resolves every logical field of payload through its precedence list.
// The first key present wins even when its value is empty; JSON null counts as absent.
func Normalize(payload map[string]interface{}) (*Record, error) {
	r := &Record{}
	var err error

	if r.Title, err = stringField(payload, titleKeys); err != nil {
		return nil, err
	}
	if r.Body, err = stringField(payload, bodyKeys); err != nil {
		return nil, err
	}
	if r.RenderedBody, err = stringField(payload, renderedBodyKeys); err != nil {
		return nil, err
	}
	if !r.RenderedBody.Set && r.Body.Set {
		r.RenderedBody = r.Body
	}
	if r.PublishTarget, err = stringField(payload, publishTargetKeys); err != nil {
		return nil, err
	}
	r.PublishTarget.Val = strings.TrimSpace(r.PublishTarget.Val)
	if r.CategoryID, err = idField(payload, categoryKeys); err != nil {
		return nil, err
	}
	if r.SubspaceID, err = idField(payload, subspaceKeys); err != nil {
		return nil, err
	}
	if r.PlaceID, err = idField(payload, placeKeys); err != nil {
		return nil, err
	}
	if r.RestrictedComments, err = boolField(payload, restrictedCommentsKeys); err != nil {
		return nil, err
	}
	if r.IsPlaceScoped, err = boolField(payload, placeScopedKeys); err != nil {
		return nil, err
	}

	if key, v, ok := lookup(payload, authorKeys); ok {
		id, err := toInt64(v)
		if err != nil {
			return nil, &apperrors.InvalidFieldError{Field: key, Reason: err.Error()}
		}
		if id != nil {
			r.AuthorID = some(*id)
		}
	}

	if key, v, ok := lookup(payload, statusKeys); ok {
		s, isString := v.(string)
		status := models.ContentStatus(strings.ToLower(strings.TrimSpace(s)))
		if !isString || !status.Valid() {
			return nil, &apperrors.InvalidFieldError{Field: key, Reason: "must be draft or published"}
		}
		r.Status = some(status)
	}

	if key, v, ok := lookup(payload, tagIDKeys); ok {
		ids, err := toIDList(v)
		if err != nil {
			return nil, &apperrors.InvalidFieldError{Field: key, Reason: err.Error()}
		}
		r.TagIDs = some(ids)
	}
	if key, v, ok := lookup(payload, tagNameKeys); ok {
		names, err := toNameList(v)
		if err != nil {
			return nil, &apperrors.InvalidFieldError{Field: key, Reason: err.Error()}
		}
		r.TagNames = some(names)
	}

	r.ImageURLs = []string{}
	if _, v, ok := lookup(payload, imageKeys); ok {
		r.ImageURLs = imageURLs(v)
	}
	r.Attachments = []models.ContentAttachment{}
	if _, v, ok := lookup(payload, attachmentKeys); ok {
		r.Attachments = attachments(v)
	}
	return r, nil
}

// lookup returns the first key of keys present in payload with a non-null value.
func lookup(payload map[string]interface{}, keys []string) (string, interface{}, bool) {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func stringField(payload map[string]interface{}, keys []string) (Opt[string], error) {
	key, v, ok := lookup(payload, keys)
	if !ok {
		return Opt[string]{}, nil
	}
	switch x := v.(type) {
	case string:
		return some(x), nil
	case json.Number:
		return some(x.String()), nil
	case float64:
		return some(strconv.FormatFloat(x, 'f', -1, 64)), nil
	default:
		return Opt[string]{}, &apperrors.InvalidFieldError{Field: key, Reason: "must be a string"}
	}
}

func idField(payload map[string]interface{}, keys []string) (Opt[*int64], error) {
	key, v, ok := lookup(payload, keys)
	if !ok {
		return Opt[*int64]{}, nil
	}
	id, err := toInt64(v)
	if err != nil {
		return Opt[*int64]{}, &apperrors.InvalidFieldError{Field: key, Reason: err.Error()}
	}
	return some(id), nil
}

func boolField(payload map[string]interface{}, keys []string) (Opt[bool], error) {
	key, v, ok := lookup(payload, keys)
	if !ok {
		return Opt[bool]{}, nil
	}
	b, err := toBool(v)
	if err != nil {
		return Opt[bool]{}, &apperrors.InvalidFieldError{Field: key, Reason: err.Error()}
	}
	return some(b), nil
}

// toInt64 accepts JSON numbers and numeric strings. An empty string means "no id".
func toInt64(v interface{}) (*int64, error) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer id", x.String())
		}
		n = i
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.Abs(x) > 1<<53 {
			return nil, fmt.Errorf("%v is not an integer id", x)
		}
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer id", x)
		}
		n = i
	default:
		return nil, fmt.Errorf("unsupported id type %T", v)
	}
	if n <= 0 {
		return nil, fmt.Errorf("id must be positive, got %d", n)
	}
	return &n, nil
}

func toBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a boolean", x)
	case json.Number:
		return x.String() != "0", nil
	case float64:
		return x != 0, nil
	default:
		return false, fmt.Errorf("unsupported boolean type %T", v)
	}
}

// toIDList accepts an array of ids or a single id.
func toIDList(v interface{}) ([]int64, error) {
	items, ok := v.([]interface{})
	if !ok {
		items = []interface{}{v}
	}
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		id, err := toInt64(item)
		if err != nil {
			return nil, err
		}
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		ids = append(ids, *id)
	}
	return ids, nil
}

// toNameList accepts an array of names or a comma separated string.
func toNameList(v interface{}) ([]string, error) {
	var raw []string
	switch x := v.(type) {
	case string:
		raw = strings.Split(x, ",")
	case []interface{}:
		for _, item := range x {
			switch s := item.(type) {
			case nil:
			case string:
				raw = append(raw, s)
			default:
				return nil, fmt.Errorf("tag names must be strings, got %T", item)
			}
		}
	default:
		return nil, fmt.Errorf("tags must be an array of strings")
	}

	names := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		names = append(names, s)
	}
	return names, nil
}

// imageURLs extracts one URL per entry; entries yielding none are dropped.
func imageURLs(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		items = []interface{}{v}
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		var u string
		switch x := item.(type) {
		case string:
			u = x
		case map[string]interface{}:
			u = firstString(x, imageRefKeys)
		}
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// attachments drops entries without a resolvable URL.
func attachments(v interface{}) []models.ContentAttachment {
	items, ok := v.([]interface{})
	if !ok {
		return []models.ContentAttachment{}
	}
	out := make([]models.ContentAttachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		url := strings.TrimSpace(firstString(m, attachmentURLKeys))
		if url == "" {
			continue
		}
		a := models.ContentAttachment{
			URL:      url,
			FileName: firstString(m, attachmentNameKeys),
			MimeType: firstString(m, attachmentMimeKeys),
		}
		if a.FileName == "" {
			a.FileName = "file"
		}
		if a.MimeType == "" {
			a.MimeType = DefaultMimeType
		}
		if _, sz, ok := lookup(m, attachmentSizeKeys); ok {
			a.FileSize = toSize(sz)
		}
		out = append(out, a)
	}
	return out
}

// firstString returns the value of the first key holding a string.
func firstString(m map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

func toSize(v interface{}) int64 {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil && i > 0 {
			return i
		}
		if f, err := x.Float64(); err == nil && f > 0 {
			return int64(f)
		}
	case float64:
		if x > 0 {
			return int64(x)
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil && i > 0 {
			return i
		}
	}
	return 0
}
