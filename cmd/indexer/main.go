package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/conf"
	zerosvc "github.com/zeromicro/go-zero/core/service"

	"sol-decoder/internal/config"
	"sol-decoder/internal/logic/grpc"
	"sol-decoder/internal/svc"
	"sol-decoder/pkg/logger"
)

var configFile = flag.String("f", "etc/indexer.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.IndexerConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	sg := zerosvc.NewServiceGroup()

	// blockChan 不关闭：退出由各服务的 Stop 驱动，关闭通道会让消费端读到 nil 区块
	blockChan := make(chan *pb.SubscribeUpdateBlock, 200)

	grpcService, err := grpc.NewGrpcStreamManager(serviceContext, blockChan)
	if err != nil {
		panic(err)
	}
	sg.Add(grpcService)
	sg.Add(grpc.NewBlockProcessor(serviceContext, blockChan))

	logger.Infof("starting decoder stream service")

	// 启动服务
	sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Infof("shutting down services...")
	sg.Stop()
}
