package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/scalegate/internal/api"
)

// sampleRequest pools an hourly observation with a three-hourly forecast and
// asks for six-hourly totals.
const sampleRequest = `{
  "runId": "localdev-smoke",
  "timeScale": {"period": "6h", "function": "TOTAL"},
  "sources": [
    {"label": "observed", "existingTimeScale": {"period": "1h", "function": "TOTAL"}, "timeStep": "1h"},
    {"label": "predicted", "existingTimeScale": {"period": "3h", "function": "TOTAL"}, "timeStep": "3h"}
  ]
}`

func main() {
	addr := flag.String("addr", "localhost:50061", "scalegate gRPC address")
	timeout := flag.Duration("timeout", 5*time.Second, "per-call timeout")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		log.Fatalf("health check: %v", err)
	}
	log.Printf("health: %s", health.GetStatus())

	in := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(sampleRequest), in); err != nil {
		log.Fatalf("decode sample request: %v", err)
	}
	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, "/"+api.ServiceName+"/Validate", in, out); err != nil {
		log.Fatalf("validate: %v", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(out)
	if err != nil {
		log.Fatalf("encode response: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(data))

	if valid := out.GetFields()["valid"]; valid == nil || !valid.GetBoolValue() {
		os.Exit(1)
	}
}
