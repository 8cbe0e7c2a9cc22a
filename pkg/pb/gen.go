// Package pb anchors the protobuf code generation. The generated packages
// land in subdirectories (acolors, v2ray/...) and are not committed; run
// `go generate ./pkg/pb` with protoc, protoc-gen-go and protoc-gen-go-grpc
// on PATH to (re)create them.
package pb

//go:generate protoc --proto_path=../../proto --go_out=.. --go_opt=module=github.com/arktoria/acolors/pkg --go-grpc_out=.. --go-grpc_opt=module=github.com/arktoria/acolors/pkg acolors.proto
//go:generate protoc --proto_path=../../proto --go_out=.. --go_opt=module=github.com/arktoria/acolors/pkg --go-grpc_out=.. --go-grpc_opt=module=github.com/arktoria/acolors/pkg v2ray/app/stats/command/command.proto
