package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/markahope-aag/hazardos-sub001/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// get type name of generic struct
func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

/* Redis */

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve instance; nil result means cache miss
func RetrieveRedis[T any](id int) (*T, error) {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var result T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &result, nil
}

func RemoveRedis[T any](id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
