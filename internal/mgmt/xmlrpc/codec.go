package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/SanatPandey22/AvereSDK/internal/mgmt"
)

// encodeCall renders one methodCall document. Struct members are emitted
// in sorted key order so payloads are stable.
func encodeCall(method string, args []any) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString("<methodCall><methodName>")
	if err := escapeTo(&b, method); err != nil {
		return nil, err
	}
	b.WriteString("</methodName><params>")
	for _, arg := range args {
		b.WriteString("<param>")
		if err := encodeValue(&b, arg); err != nil {
			return nil, err
		}
		b.WriteString("</param>")
	}
	b.WriteString("</params></methodCall>")
	return b.Bytes(), nil
}

func encodeValue(b *bytes.Buffer, v any) error {
	b.WriteString("<value>")
	switch t := v.(type) {
	case nil:
		b.WriteString("<nil/>")
	case string:
		b.WriteString("<string>")
		if err := escapeTo(b, t); err != nil {
			return err
		}
		b.WriteString("</string>")
	case bool:
		if t {
			b.WriteString("<boolean>1</boolean>")
		} else {
			b.WriteString("<boolean>0</boolean>")
		}
	case int:
		fmt.Fprintf(b, "<int>%d</int>", t)
	case float64:
		fmt.Fprintf(b, "<double>%g</double>", t)
	case []string:
		anys := make([]any, len(t))
		for i, e := range t {
			anys[i] = e
		}
		if err := encodeArray(b, anys); err != nil {
			return err
		}
	case []any:
		if err := encodeArray(b, t); err != nil {
			return err
		}
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = e
		}
		if err := encodeStruct(b, m); err != nil {
			return err
		}
	case map[string]any:
		if err := encodeStruct(b, t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported argument type %T", v)
	}
	b.WriteString("</value>")
	return nil
}

func encodeArray(b *bytes.Buffer, values []any) error {
	b.WriteString("<array><data>")
	for _, e := range values {
		if err := encodeValue(b, e); err != nil {
			return err
		}
	}
	b.WriteString("</data></array>")
	return nil
}

func encodeStruct(b *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("<struct>")
	for _, k := range keys {
		b.WriteString("<member><name>")
		if err := escapeTo(b, k); err != nil {
			return err
		}
		b.WriteString("</name>")
		if err := encodeValue(b, m[k]); err != nil {
			return err
		}
		b.WriteString("</member>")
	}
	b.WriteString("</struct>")
	return nil
}

func escapeTo(b *bytes.Buffer, s string) error {
	return xml.EscapeText(b, []byte(s))
}

// methodResponse is the reply envelope. A response carries either one
// result param or a fault, never both.
type methodResponse struct {
	Params []xValue `xml:"params>param>value"`
	Fault  *xValue  `xml:"fault>value"`
}

// xValue is one wire value. At most one typed branch is present; bare
// character data with no type element is a string.
type xValue struct {
	Raw      string    `xml:",chardata"`
	Str      *string   `xml:"string"`
	Int      *string   `xml:"int"`
	I4       *string   `xml:"i4"`
	I8       *string   `xml:"i8"`
	Boolean  *string   `xml:"boolean"`
	Double   *string   `xml:"double"`
	DateTime *string   `xml:"dateTime.iso8601"`
	Base64   *string   `xml:"base64"`
	Nil      *struct{} `xml:"nil"`
	Array    *xArray   `xml:"array"`
	Struct   *xStruct  `xml:"struct"`
}

type xArray struct {
	Values []xValue `xml:"data>value"`
}

type xStruct struct {
	Members []xMember `xml:"member"`
}

type xMember struct {
	Name  string `xml:"name"`
	Value xValue `xml:"value"`
}

func (v *xValue) decode() (any, error) {
	switch {
	case v.Nil != nil:
		return nil, nil
	case v.Str != nil:
		return *v.Str, nil
	case v.Int != nil:
		return parseInt(*v.Int)
	case v.I4 != nil:
		return parseInt(*v.I4)
	case v.I8 != nil:
		return parseInt(*v.I8)
	case v.Boolean != nil:
		switch strings.TrimSpace(*v.Boolean) {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", *v.Boolean)
	case v.Double != nil:
		f, err := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double %q", *v.Double)
		}
		return f, nil
	case v.DateTime != nil:
		return *v.DateTime, nil
	case v.Base64 != nil:
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*v.Base64))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 value: %w", err)
		}
		return string(raw), nil
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for i := range v.Array.Values {
			e, err := v.Array.Values[i].decode()
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for i := range v.Struct.Members {
			m := &v.Struct.Members[i]
			e, err := m.Value.decode()
			if err != nil {
				return nil, err
			}
			out[m.Name] = e
		}
		return out, nil
	default:
		return v.Raw, nil
	}
}

func parseInt(s string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid int %q", s)
	}
	return n, nil
}

// parseResponse unpacks a methodResponse body into its result value.
// Faults come back as *mgmt.Fault so callers can match on codes.
func parseResponse(body []byte) (any, error) {
	var resp methodResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Fault != nil {
		return nil, faultError(resp.Fault)
	}
	if len(resp.Params) == 0 {
		return nil, nil
	}
	return resp.Params[0].decode()
}

func faultError(v *xValue) error {
	decoded, err := v.decode()
	if err != nil {
		return fmt.Errorf("parse fault: %w", err)
	}
	members, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("malformed fault %v", decoded)
	}
	f := &mgmt.Fault{}
	switch code := members["faultCode"].(type) {
	case int:
		f.Code = code
	case string:
		f.Code, _ = strconv.Atoi(code)
	}
	f.Message, _ = members["faultString"].(string)
	return f
}

// decodeReply maps a decoded wire value onto the caller's reply pointer.
// Reply structs carry their wire member names as mapstructure tags, and
// some releases report numeric members as strings, so weak typing is on.
func decodeReply(result, reply any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           reply,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(result)
}
