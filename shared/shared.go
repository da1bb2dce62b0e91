package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"guestroom/shared/cache"
	"guestroom/shared/constant"
	"guestroom/shared/dto"
	"guestroom/shared/timezone"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero db-tagged fields of a struct into an update map
// and stamps the modification metadata.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterEq(table, map[string]any{fieldID: id})
}

// FilterEq ANDs an equality filter for every field in values. Fields are emitted in sorted
// order so the generated where clause and cache keys are stable.
func FilterEq(table string, values map[string]any) dto.FilterGroup {
	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}
	for _, field := range fields {
		group.Filters = append(group.Filters, dto.Filter{
			Field:    field,
			Value:    values[field],
			Operator: dto.FilterOperatorEq,
			Table:    table,
		})
	}

	return group
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a cache key from the pagination params and a digest of the filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	raw, err := json.Marshal(filter)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", filter))
	}

	digest := sha256.Sum256(raw)

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		hex.EncodeToString(digest[:8]),
	)
}

// InvalidateCaches drops every key under prefix. Errors are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// Actor names the caller for audit records and metadata: the staff email when
// authenticated, "system" otherwise.
func Actor(ctx context.Context) string {
	if email, _ := ctx.Value(constant.ContextKeyUserEmail).(string); email != "" {
		return email
	}

	if id, _ := ctx.Value(constant.ContextKeyUserID).(string); id != "" {
		return id
	}

	return constant.ContextSystem
}
