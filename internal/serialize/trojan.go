package serialize

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/v2ray"
)

// trojan://<password>@<host>:<port>?sni=<x>&allowinsecure=<bool>&alpn=h2%0Ahttp/1.1#<name>
// The literal %0A in the alpn position is required; URLs without it are
// rejected. TODO: relax the regex once clients stop emitting the %0A form.
var trojanRe = regexp.MustCompile(`(\w+)://([^/@:]*)@([^@:]*):([^:]*)\?([^%]*)%0A([^#]*)#([^#]*)`)

func trojanNodeFromURL(urlStr string) (*repository.NodeData, error) {
	caps := trojanRe.FindStringSubmatch(urlStr)
	if caps == nil {
		return nil, parseErrorf("failed to parse trojan url %q", urlStr)
	}

	port, err := strconv.ParseUint(caps[4], 10, 16)
	if err != nil {
		return nil, parseErrorf("trojan port: %v", err)
	}

	query := map[string]string{}
	for _, pair := range strings.Split(caps[5], "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, parseErrorf("wrong trojan query arguments")
		}
		query[key] = value
	}

	stream := &v2ray.StreamSettingsObject{}
	tls := &v2ray.TLSObject{ServerName: query["sni"]}

	if raw, ok := query["allowinsecure"]; ok {
		insecure, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, parseErrorf("trojan allowinsecure: %v", err)
		}
		tls.AllowInsecure = insecure
	} else {
		stream.Network = "tcp"
		stream.Security = "tls"
	}

	if alpn, ok := query["alpn"]; ok {
		var values []string
		switch {
		case strings.Contains(alpn, ","):
			values = strings.Split(alpn, ",")
		case strings.Contains(alpn, "\n"):
			values = strings.Split(alpn, "\n")
		default:
			values = []string{alpn}
		}
		tls.ALPN = values
	} else {
		tls.ALPN = []string{"http/1.1"}
	}

	stream.TLSSettings = tls

	name, err := url.QueryUnescape(caps[7])
	if err != nil {
		return nil, parseErrorf("trojan tag: %v", err)
	}

	outbound := &v2ray.OutboundObject{
		Protocol:    "trojan",
		SendThrough: "0.0.0.0",
		Settings: &v2ray.OutboundSettings{
			Trojan: &v2ray.TrojanOutboundSettings{
				Servers: []v2ray.TrojanServerObject{{
					Address:  caps[3],
					Port:     uint32(port),
					Password: caps[2],
				}},
			},
		},
		StreamSettings: stream,
	}

	raw, err := prettyOutbound(outbound)
	if err != nil {
		return nil, parseErrorf("trojan outbound: %v", err)
	}

	return &repository.NodeData{
		Name:     name,
		Protocol: "trojan",
		Address:  caps[3],
		Port:     int32(port),
		Password: caps[2],
		Raw:      raw,
		URL:      urlStr,
	}, nil
}
