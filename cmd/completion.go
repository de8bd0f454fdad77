package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/rasticrookie/portfolio/config"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	noArgs := &complete.Command{}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"store":  predict.Set{config.StoreFile, config.StoreMemory, config.StoreRedis, config.StorePostgres},
			"raw":    predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"buy":  {Args: predict.Something},
			"sell": {Args: predict.Something},
			"rm":   {Args: predict.Something},
			"trades": {Flags: map[string]complete.Predictor{
				"s":    predict.Something,
				"head": predict.Something,
				"tail": predict.Something,
			}},
			"positions": {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
			"watch": {Sub: map[string]*complete.Command{
				"list": noArgs,
				"add":  {Args: predict.Something},
				"rm":   {Args: predict.Something},
			}},
			"quotes":  {Args: predict.Something},
			"futures": noArgs,
			"forex":   noArgs,
			"crypto":  noArgs,
			"news":    noArgs,
			"serve":   {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"topic":   {Args: predict.Set{"*", "trades", "positions", "market", "config", "server"}},
		},
	}
}
