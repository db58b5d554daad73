package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/storage"
	"music-hub/pkg/common/validate"
)

// bindInput 读取 JSON、表单或 multipart 请求体；JSON 中的 null 视为未提交
func bindInput(c *app.RequestContext) (*validate.Input, error) {
	contentType := strings.ToLower(string(c.ContentType()))

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		return bindMultipart(c)
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		values := map[string]string{}
		c.PostArgs().VisitAll(func(k, v []byte) {
			if _, seen := values[string(k)]; !seen {
				values[string(k)] = string(v)
			}
		})
		return validate.NewInput(values), nil
	default:
		return bindJSON(c.Request.Body())
	}
}

func bindJSON(body []byte) (*validate.Input, error) {
	values := map[string]string{}
	if len(bytes.TrimSpace(body)) == 0 {
		return validate.NewInput(values), nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, apperrors.FieldError("body", "The request body must be a valid JSON object.")
	}

	var nonText []string
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			values[k] = val
			continue
		case json.Number:
			values[k] = val.String()
		case bool:
			values[k] = strconv.FormatBool(val)
		default:
			// 数组或对象原样保留，交给规则判定
			encoded, _ := json.Marshal(val)
			values[k] = string(encoded)
		}
		nonText = append(nonText, k)
	}

	in := validate.NewInput(values)
	for _, k := range nonText {
		in.MarkNonText(k)
	}
	return in, nil
}

func bindMultipart(c *app.RequestContext) (*validate.Input, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.FieldError("body", "The request body could not be parsed.")
	}

	values := map[string]string{}
	for k, vs := range form.Value {
		if len(vs) > 0 {
			values[k] = vs[0]
		}
	}
	in := validate.NewInput(values)

	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", field, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", field, err)
		}
		in.SetFile(field, &storage.Upload{Filename: headers[0].Filename, Data: data})
	}
	return in, nil
}

// pathID 解析路径中的 id，非法 id 按未找到处理
func pathID(c *app.RequestContext) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}
