package main

import (
	"log"

	"github.com/dima-brook/pallet-erc1155/core"
	"github.com/dima-brook/pallet-erc1155/core/logger"
	"github.com/dima-brook/pallet-erc1155/token"
	"github.com/dima-brook/pallet-erc1155/version"
)

func main() {
	l := logger.Logger()
	if bi, err := version.BuildInfo(); err == nil {
		l.Warningf("start pallet, go version %s", bi.GoVersion)
	}

	cc, err := core.NewCC(token.New())
	if err != nil {
		log.Fatal(err)
	}

	if err = cc.Start(); err != nil {
		log.Fatal(err)
	}
}
