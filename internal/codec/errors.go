package codec

import "errors"

// ErrTruncated 表示缓冲区剩余字节不足以完成本次读取。
// 解码层捕获该错误后只拒绝当前这一次解码尝试，不影响其他数据。
var ErrTruncated = errors.New("codec: truncated data")
