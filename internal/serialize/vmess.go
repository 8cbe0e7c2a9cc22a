package serialize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/v2ray"
)

// vmessNodeFromBase64 parses the V2RayN share form: vmess://<base64 JSON>
// with fields {v, ps, add, port, id, aid, scy, net, type, host, path, tls,
// sni}.
func vmessNodeFromBase64(url string) (*repository.NodeData, error) {
	_, body, _ := strings.Cut(url, "://")
	body = strings.TrimSuffix(body, "@")
	if body == "" {
		return nil, parseErrorf("vmess url has no content")
	}

	decoded, err := decodeBase64(body)
	if err != nil {
		return nil, parseErrorf("vmess body: %v", err)
	}

	var root map[string]any
	if err := json.Unmarshal(decoded, &root); err != nil {
		return nil, parseErrorf("vmess json: %v", err)
	}

	address := stringField(root, "add")
	port, portOK := numberField(root, "port")
	if address == "" || !portOK {
		return nil, parseErrorf("vmess url lacks address or port")
	}

	id := stringField(root, "id")
	if id == "" {
		return nil, parseErrorf("vmess url lacks id")
	}

	user := v2ray.VMessUserObject{ID: id, Security: "auto"}
	if aid, ok := numberField(root, "aid"); ok {
		user.AlterID = int32(aid)
	}
	if scy := stringField(root, "scy"); scy != "" {
		user.Security = scy
	}

	stream := vmessStreamSettings(root)

	outbound := &v2ray.OutboundObject{
		Protocol:    "vmess",
		SendThrough: "0.0.0.0",
		Settings: &v2ray.OutboundSettings{
			Vmess: &v2ray.VMessOutboundSettings{
				Vnext: []v2ray.VMessServerObject{{
					Address: address,
					Port:    uint32(port),
					Users:   []v2ray.VMessUserObject{user},
				}},
			},
		},
		StreamSettings: stream,
	}

	raw, err := prettyOutbound(outbound)
	if err != nil {
		return nil, parseErrorf("vmess outbound: %v", err)
	}

	return &repository.NodeData{
		Name:     stringField(root, "ps"),
		Protocol: "vmess",
		Address:  address,
		Port:     int32(port),
		Password: id,
		Raw:      raw,
		URL:      url,
	}, nil
}

func vmessStreamSettings(root map[string]any) *v2ray.StreamSettingsObject {
	stream := &v2ray.StreamSettingsObject{}

	if network := stringField(root, "net"); network != "" {
		if network == "h2" {
			network = "http"
		}
		stream.Network = network

		switch network {
		case "http":
			transport := &v2ray.HTTPTransport{Path: stringField(root, "path")}
			for _, host := range strings.Split(stringField(root, "host"), ",") {
				if host = strings.TrimSpace(host); host != "" {
					transport.Host = append(transport.Host, host)
				}
			}
			stream.HTTPSettings = transport
		case "ws":
			ws := &v2ray.WebSocketSettings{Path: stringField(root, "path")}
			if host := stringField(root, "host"); host != "" {
				ws.Headers = map[string]string{"Host": host}
			}
			stream.WSSettings = ws
		case "grpc":
			stream.GRPCSettings = &v2ray.GRPCSettings{
				ServiceName: stringField(root, "path"),
			}
		case "quic":
			quic := &v2ray.QUICSettings{
				Security: stringField(root, "host"),
				Key:      stringField(root, "path"),
			}
			if headerType := stringField(root, "type"); headerType != "" {
				quic.Header = &v2ray.QUICHeaderType{Type: headerType}
			}
			stream.QUICSettings = quic
		}
	}

	if tls := stringField(root, "tls"); tls != "" {
		stream.Security = tls
	}
	if sni := stringField(root, "sni"); sni != "" {
		stream.TLSSettings = &v2ray.TLSObject{ServerName: sni}
	}

	return stream
}

func stringField(root map[string]any, key string) string {
	s, _ := root[key].(string)
	return s
}

// numberField accepts both JSON numbers and numeric strings, which share
// feeds mix freely.
func numberField(root map[string]any, key string) (int64, bool) {
	switch v := root[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
